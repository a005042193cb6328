package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "fleetctl-cache.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 5
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 12300
	}
	if cfg.Server.ConnectTimeout == 0 {
		cfg.Server.ConnectTimeout = 10 * time.Second
	}
	if cfg.Server.ActionWriteRate == 0 {
		cfg.Server.ActionWriteRate = 16
	}
	if cfg.Server.ActionWriteBurst == 0 {
		cfg.Server.ActionWriteBurst = 16
	}

	// Graph defaults
	if cfg.Graph.NodesPath == "" {
		cfg.Graph.NodesPath = "data/nodes.bin"
	}
	if cfg.Graph.EdgesPath == "" {
		cfg.Graph.EdgesPath = "data/edges.bin"
	}
	if cfg.Graph.GeometryPath == "" {
		cfg.Graph.GeometryPath = "data/geometry.bin"
	}
	if cfg.Graph.SnapCandidates == 0 {
		cfg.Graph.SnapCandidates = 8
	}
	if cfg.Graph.EdgePenalty == 0 {
		cfg.Graph.EdgePenalty = 0.5
	}
	if cfg.Graph.LatLonPadding == 0 {
		cfg.Graph.LatLonPadding = 0.2
	}

	// Routing tool defaults
	if cfg.Routing.Address == "" {
		cfg.Routing.Address = "localhost:50061"
	}

	// Planner defaults
	if cfg.Planner.RepairMaxIter == 0 {
		cfg.Planner.RepairMaxIter = 16
	}
	if cfg.Planner.Horizon == 0 {
		cfg.Planner.Horizon = 1000
	}
	if cfg.Planner.CraftMaxWait == 0 {
		cfg.Planner.CraftMaxWait = 5
	}
	if cfg.Planner.TasksMax == 0 {
		cfg.Planner.TasksMax = 8
	}
	if cfg.Planner.StepDeadline == 0 {
		cfg.Planner.StepDeadline = 4 * time.Second
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/fleetctl.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 100 // MB
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
	if cfg.Logging.Rotation.MaxAge == 0 {
		cfg.Logging.Rotation.MaxAge = 28 // days
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
