package config

import "time"

// DaemonConfig holds the fleet-controller process's own supervision settings —
// the PID-file singleton lock and graceful shutdown budget. There is no
// container pool here: the controller runs one process per match.
type DaemonConfig struct {
	// PID file location, used to refuse a second concurrent instance
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout once SIGINT/SIGTERM is observed
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
