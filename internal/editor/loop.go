package editor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Loop feeds gestures to a Controller. Synchronous parts run in order on
// the loop goroutine; store round-trips run concurrently and are neither
// serialised nor de-duplicated.
type Loop struct {
	ctrl *Controller
}

// NewLoop creates a Loop for ctrl.
func NewLoop(ctrl *Controller) *Loop {
	return &Loop{ctrl: ctrl}
}

// Run consumes events until the channel closes or ctx ends, then waits for
// in-flight round-trips. Failures are reported through the controller's
// Notifier, so Run itself only returns nil.
func (l *Loop) Run(ctx context.Context, events <-chan Event) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}

				p := l.ctrl.Prepare(ev)
				if p == nil {
					continue
				}

				g.Go(func() error {
					_ = p(gctx) // reported through the notifier
					return nil
				})
			}
		}
	})

	return g.Wait()
}
