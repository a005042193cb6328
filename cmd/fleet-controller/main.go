// Command fleet-controller is the Mothership process (spec.md §4.K): it
// dials the contest server once per agent credential, authenticates, waits
// for sim-start, then runs the planner for the match's lifetime, turning
// every step's 16 request-actions into 16 actions.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/massim-fleetctl/internal/adapters/cli"
	"github.com/andrescamacho/massim-fleetctl/internal/adapters/graphfile"
	"github.com/andrescamacho/massim-fleetctl/internal/adapters/metrics"
	"github.com/andrescamacho/massim-fleetctl/internal/adapters/persistence"
	"github.com/andrescamacho/massim-fleetctl/internal/adapters/wire"
	"github.com/andrescamacho/massim-fleetctl/internal/application/common"
	"github.com/andrescamacho/massim-fleetctl/internal/application/planner"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/action"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/facilitycache"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/config"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/database"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/logging"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/pidfile"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/signals"
	"github.com/andrescamacho/massim-fleetctl/pkg/idgen"
)

func main() {
	cmd := cli.NewRootCommand(run)
	os.Exit(cli.Execute(cmd))
}

func run(opts cli.Options) error {
	cfg := config.MustLoadConfig(opts.ConfigPath)
	applyCLIOverrides(cfg, opts)

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("fleet-controller: init logging: %w", err)
	}
	ctx := common.WithLogger(context.Background(), logger)
	ctx, cancel := signals.Watch(ctx)
	defer cancel()

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		return fmt.Errorf("fleet-controller: %w", err)
	}
	defer pf.Release()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("fleet-controller: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("fleet-controller: migrate: %w", err)
	}

	graph, err := loadGraph(cfg, db)
	if err != nil {
		return fmt.Errorf("fleet-controller: load graph: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	recorder := metrics.NewPlannerCollector()
	if cfg.Metrics.Enabled {
		if err := recorder.Register(); err != nil {
			logger.Log("warn", "metrics registration failed", map[string]any{"error": err.Error()})
		}
	}

	agents := parseAgents(opts.Agents)
	if len(agents) == 0 {
		return fmt.Errorf("fleet-controller: at least one -a name:password is required")
	}

	return runMatch(ctx, cfg, graph, agents, recorder, logger)
}

func applyCLIOverrides(cfg *config.Config, opts cli.Options) {
	if opts.ServerHost != "" {
		cfg.Server.Host = opts.ServerHost
	}
	if opts.ServerPort != 0 {
		cfg.Server.Port = opts.ServerPort
	}
	if opts.Quiet {
		cfg.Logging.Level = "error"
	}
}

// loadGraph returns the cached, pruned road graph if one was already built
// for this map, otherwise reads the three binary files and caches the
// result for the next run.
func loadGraph(cfg *config.Config, db *gorm.DB) (*roadgraph.Graph, error) {
	repo := persistence.NewGraphCacheRepository(db)
	mapName := cfg.Graph.NodesPath

	if g, ok, err := repo.Load(mapName); err != nil {
		return nil, err
	} else if ok {
		return g, nil
	}

	nodesFile, err := os.Open(cfg.Graph.NodesPath)
	if err != nil {
		return nil, fmt.Errorf("open nodes file: %w", err)
	}
	defer nodesFile.Close()
	edgesFile, err := os.Open(cfg.Graph.EdgesPath)
	if err != nil {
		return nil, fmt.Errorf("open edges file: %w", err)
	}
	defer edgesFile.Close()
	geoFile, err := os.Open(cfg.Graph.GeometryPath)
	if err != nil {
		return nil, fmt.Errorf("open geometry file: %w", err)
	}
	defer geoFile.Close()

	hdr, nodes, err := graphfile.ReadNodes(nodesFile)
	if err != nil {
		return nil, err
	}
	edges, err := graphfile.ReadEdges(edgesFile, hdr.EdgeCount)
	if err != nil {
		return nil, err
	}
	geo, err := graphfile.ReadGeometry(geoFile, hdr.GeometryCount)
	if err != nil {
		return nil, err
	}

	bounds := roadgraph.Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}.Padded()
	g, err := roadgraph.Build(bounds, nodes, edges, geo)
	if err != nil {
		return nil, err
	}

	if err := repo.Save(mapName, bounds, nodes, edges, geo); err != nil {
		return nil, fmt.Errorf("fleet-controller: cache graph: %w", err)
	}
	return g, nil
}

func parseAgents(specs []string) map[string]string {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		for i := 0; i < len(s); i++ {
			if s[i] == ':' {
				out[s[:i]] = s[i+1:]
				break
			}
		}
	}
	return out
}

func runMatch(ctx context.Context, cfg *config.Config, graph *roadgraph.Graph, agents map[string]string, recorder *metrics.PlannerCollector, logger common.ContainerLogger) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	conns := make([]*wire.Conn, 0, len(agents))
	names := make([]string, 0, len(agents))
	for name, pw := range agents {
		c, err := wire.Dial(ctx, addr, name, pw)
		if err != nil {
			return fmt.Errorf("fleet-controller: dial agent %s: %w", name, err)
		}
		defer c.Close()
		conns = append(conns, c)
		names = append(names, name)
	}

	simStart, err := conns[0].NextSimStart()
	if err != nil {
		return fmt.Errorf("fleet-controller: sim-start: %w", err)
	}
	matchID := idgen.NewMatchID(names[0])
	logger.Log("info", "match started", map[string]any{"match_id": matchID, "agents": names})
	w := wire.NewWorldFromSimStart(simStart, graph)
	decoder := wire.NewDecoder(w)
	fc := facilitycache.New(graph)

	pl := planner.New(w, fc, int32(cfg.Planner.Horizon), cfg.Planner.StepDeadline, recorder, cfg.Planner.RandomSeed)

	cmdMetrics := metrics.NewCommandMetricsCollector()
	if err := cmdMetrics.Register(); err != nil {
		logger.Log("warn", "command metrics registration failed", map[string]any{"error": err.Error()})
	}
	med := common.NewMediator()
	med.RegisterMiddleware(metrics.PrometheusMiddleware(cmdMetrics))
	if err := common.RegisterHandler[stepRequest](med, &stepHandler{pl: pl}); err != nil {
		return fmt.Errorf("fleet-controller: register step handler: %w", err)
	}

	for {
		var percepts [strategy.NumAgents]situation.Percept
		var ids [strategy.NumAgents]string
		var deadline time.Time
		for i, c := range conns {
			if signals.Closing() {
				return nil
			}
			ra, err := c.NextRequestAction()
			if err == wire.ErrSimEnded {
				logger.Log("info", "match ended", map[string]any{"match_id": matchID, "agent": names[i]})
				return nil
			}
			if err != nil {
				return fmt.Errorf("fleet-controller: request-action: %w", err)
			}
			percepts[i] = decoder.Percept(i, ra)
			ids[i] = ra.ID
			if d := wire.DeadlineTime(ra.Deadline); deadline.IsZero() || d.Before(deadline) {
				deadline = d
			}
		}

		stepCtx := ctx
		cancel := func() {}
		if !deadline.IsZero() {
			stepCtx, cancel = context.WithDeadline(ctx, deadline)
		}

		resp, err := med.Send(stepCtx, stepRequest{percepts: percepts})
		cancel()
		var actions [strategy.NumAgents]action.Action
		if resp != nil {
			actions = resp.([strategy.NumAgents]action.Action)
		}
		if err != nil {
			stepID := idgen.NewStepID(percepts[0].SimulationStep)
			logger.Log("warn", "repair did not converge within budget", map[string]any{"match_id": matchID, "step_id": stepID, "step": percepts[0].SimulationStep})
		}

		for i, c := range conns {
			if ids[i] == "" {
				continue
			}
			if err := c.SendAction(ctx, ids[i], actions[i]); err != nil {
				return fmt.Errorf("fleet-controller: send action for %s: %w", names[i], err)
			}
		}
	}
}

// stepRequest is the one command this daemon's mediator dispatches: one
// perceive-plan-act step over that tick's 16 percepts. Routing it through
// the mediator rather than calling the planner directly lets the command
// metrics middleware record step-level duration/outcome the same way the
// teacher's command bus instruments every command it dispatches.
type stepRequest struct {
	percepts [strategy.NumAgents]situation.Percept
}

type stepHandler struct {
	pl *planner.Planner
}

func (h *stepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	req := request.(stepRequest)
	actions, err := h.pl.Step(ctx, req.percepts)
	return actions, err
}
