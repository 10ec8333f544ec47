package factorial

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Computation is a handle on a computation running in the background.
type Computation struct {
	id      string
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Outcome
}

// Start validates req and runs it on its own goroutine. The returned handle
// lets callers that cannot hand over a cancellable context abort the
// computation themselves.
func (e *Engine) Start(ctx context.Context, req Request) (*Computation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Computation{
		id:     ulid.Make().String(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		defer cancel()
		c.outcome = e.run(ctx, req, c.id)
	}()
	return c, nil
}

// ID returns the computation identifier, also carried by its Outcome.
func (c *Computation) ID() string { return c.id }

// Abort requests cancellation. It is safe to call at any time and more than
// once; after resolution it has no effect.
func (c *Computation) Abort() { c.cancel() }

// Done is closed once the outcome is available.
func (c *Computation) Done() <-chan struct{} { return c.done }

// Wait blocks until the computation resolves and returns its outcome.
func (c *Computation) Wait() Outcome {
	<-c.done
	return c.outcome
}
