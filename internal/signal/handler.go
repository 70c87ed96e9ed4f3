// Package signal turns SIGINT and SIGTERM into context cancellation so a
// running generation can be cut short without killing the harness.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// WithInterrupt returns a child of parent that is canceled on the first SIGINT
// or SIGTERM. onInterrupt, if non-nil, runs before the cancel.
//
// The returned stop function unregisters the handler and cancels the child.
// Call it once the guarded section ends; signals arriving afterwards get the
// default behavior again.
func WithInterrupt(parent context.Context, onInterrupt func(os.Signal)) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			cancel()
			<-done
		})
	}
	return ctx, stop
}
