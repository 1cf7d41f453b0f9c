package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownContext returns a context that is cancelled on the first ctrl+c or
// SIGTERM. Call stop to release the signal handler early.
func ShutdownContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
