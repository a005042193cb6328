package config

import "time"

// DatabaseConfig holds the local warm-cache database connection.
//
// Only sqlite is supported: the controller is a single local process and
// the single thing worth persisting across restarts is the facility
// distance cache (spec.md §4.E) and the pruned road graph (spec.md §4.C) —
// a shared multi-writer database buys nothing here.
type DatabaseConfig struct {
	// Path is the sqlite file path, or ":memory:" for ephemeral runs
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}
