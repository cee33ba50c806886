package tessera

import (
	"context"
	"sync"
	"sync/atomic"
)

// readiness is a one-shot signal. It resolves exactly once, either ready or
// failed, and never changes afterwards. Everything the owner publishes must be
// written before resolve is called; readers that observe ready (via IsReady or
// the closed channel) then see the complete state.
type readiness struct {
	once  sync.Once
	done  chan struct{}
	ready atomic.Bool
	err   error
}

func newReadiness() *readiness {
	return &readiness{done: make(chan struct{})}
}

// resolve settles the signal. A nil err marks it ready. Later calls are no-ops.
func (r *readiness) resolve(err error) {
	r.once.Do(func() {
		r.err = err
		if err == nil {
			r.ready.Store(true)
		}
		close(r.done)
	})
}

func (r *readiness) isReady() bool {
	return r.ready.Load()
}

// wait blocks until the signal settles or ctx ends.
func (r *readiness) wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failure returns the terminal error, or nil while pending or once ready.
func (r *readiness) failure() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
