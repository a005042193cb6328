// Package signals watches for SIGINT/SIGTERM and cancels a context so the
// wire server and planner can drain in-flight steps instead of the process
// dying mid-write, mirroring the teacher's daemon shutdown goroutine in
// cmd/routing-service.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/andrescamacho/massim-fleetctl/internal/application/common"
)

// closing is set once a shutdown signal has been observed; callers on a hot
// path (e.g. the wire read/write pump) can poll it instead of plumbing a
// context through every call.
var closing atomic.Bool

// Closing reports whether a shutdown signal has been received.
func Closing() bool {
	return closing.Load()
}

// Watch derives a child context from parent that is cancelled the first
// time SIGINT or SIGTERM arrives, logging the signal via the context's
// logger before cancelling. The returned cancel func should be deferred by
// the caller to release the signal.Notify registration on normal exit.
func Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			closing.Store(true)
			common.LoggerFromContext(ctx).Log("info", "received shutdown signal, draining", map[string]any{
				"signal": sig.String(),
			})
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
