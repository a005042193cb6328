// Package logging wires structured logging the way the rest of the examples
// in this corpus do: a zerolog core behind the teacher's context-carried
// logger interface, so application code never imports zerolog directly.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/andrescamacho/massim-fleetctl/internal/application/common"
	"github.com/andrescamacho/massim-fleetctl/internal/infrastructure/config"
)

// zerologContainer adapts a zerolog.Logger to the application layer's
// ContainerLogger interface (internal/application/common.ContainerLogger),
// so the mediator middleware chain and domain code never import zerolog.
type zerologContainer struct {
	logger zerolog.Logger
}

// New builds the root logger from LoggingConfig: level, json/text format,
// stdout/stderr/file output and optional lumberjack-backed rotation.
func New(cfg *config.LoggingConfig) (common.ContainerLogger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	writer, err := outputWriter(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Format != "json" {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}

	ctx := zerolog.New(writer).Level(level).With().Timestamp()
	if cfg.IncludeCaller {
		ctx = ctx.Caller()
	}

	return &zerologContainer{logger: ctx.Logger()}, nil
}

func outputWriter(cfg *config.LoggingConfig) (io.Writer, error) {
	switch cfg.Output {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		if !cfg.Rotation.Enabled {
			return os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		}
		return &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		}, nil
	default:
		return os.Stdout, nil
	}
}

// Log implements common.ContainerLogger by mapping the level string onto a
// zerolog event and flattening the metadata map onto it.
func (c *zerologContainer) Log(level, message string, metadata map[string]interface{}) {
	var event *zerolog.Event
	switch level {
	case "debug":
		event = c.logger.Debug()
	case "warn":
		event = c.logger.Warn()
	case "error":
		event = c.logger.Error()
	default:
		event = c.logger.Info()
	}
	event.Fields(metadata).Msg(message)
}

// FromContext is a thin re-export of common.LoggerFromContext so adapters
// that only depend on this package can still pull the request-scoped
// logger without importing the application layer directly.
func FromContext(ctx context.Context) common.ContainerLogger {
	return common.LoggerFromContext(ctx)
}

// WithContext is a thin re-export of common.WithLogger for the same reason.
func WithContext(ctx context.Context, logger common.ContainerLogger) context.Context {
	return common.WithLogger(ctx, logger)
}
