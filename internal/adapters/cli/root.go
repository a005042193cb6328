// Package cli wires the fleet controller's command-line surface (spec.md
// §6): a single cobra command carrying the reference tool's exact flag set.
// -s only ever selects among the four scenario/data-source values; the
// planner built in internal/application/planner is always the entry point
// it drives (see DESIGN.md Open Questions — the greedy/simple scheduler the
// flag historically could also select is not implemented).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Options holds every flag value the root command accepts, decoupled from
// cobra so cmd/fleet-controller can build a RunFunc against a plain struct.
type Options struct {
	MassimDir    string
	ConfigPath   string
	ServerHost   string
	ServerPort   int
	Agents       []string // "name:password" pairs
	DummyAgent   bool
	DumpXMLPath  string
	Scenario     string
	Quiet        bool
	StatsFile    string
	LoadConfig   string
}

// scenarios enumerates -s's only legal values.
var scenarios = map[string]bool{"test": true, "test2": true, "stats": true, "play": true}

// RunFunc is invoked once flags are parsed and validated.
type RunFunc func(opts Options) error

// NewRootCommand builds the fleet-controller root command. run is called
// with the parsed Options once cobra has validated the flag set.
func NewRootCommand(run RunFunc) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "fleet-controller",
		Short: "Autonomous fleet controller for the road-network delivery contest",
		Long: `fleet-controller connects to a contest server, authenticates every agent
in the team and runs the Mothership planner for the duration of one match.

Examples:
  fleet-controller -m ./massim -i localhost -p 12300 -a agentA:pw -a agentB:pw
  fleet-controller -s stats --stats ./run.json
  fleet-controller --load ./fleet.yaml -q`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Scenario != "" && !scenarios[opts.Scenario] {
				return fmt.Errorf("cli: -s must be one of test|test2|stats|play, got %q", opts.Scenario)
			}
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.MassimDir, "massim-dir", "m", "", "path to the massim server installation")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to the match configuration file")
	flags.StringVarP(&opts.ServerHost, "host", "i", "localhost", "contest server host")
	flags.IntVarP(&opts.ServerPort, "port", "p", 12300, "contest server port")
	flags.StringArrayVarP(&opts.Agents, "agent", "a", nil, "agent credential as name:password (repeatable)")
	flags.BoolVarP(&opts.DummyAgent, "dummy", "u", false, "run one dummy agent that only sends no-ops")
	flags.StringVarP(&opts.DumpXMLPath, "dump", "d", "", "write every raw wire message to this path")
	flags.StringVarP(&opts.Scenario, "scenario", "s", "play", "scenario/data source: test|test2|stats|play")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress non-error log output")
	flags.StringVar(&opts.StatsFile, "stats", "", "write end-of-match statistics to this file")
	flags.StringVar(&opts.LoadConfig, "load", "", "load a saved fleet configuration before connecting")

	return cmd
}

// Execute runs cmd and returns its exit code, the shape cmd/fleet-controller
// hands straight to os.Exit.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
