package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gate caps the number of external jobs running at once across all requests.
type Gate struct {
	sem          *semaphore.Weighted
	queueTimeout time.Duration
}

func NewGate(capacity int, queueTimeout time.Duration) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:          semaphore.NewWeighted(int64(capacity)),
		queueTimeout: queueTimeout,
	}
}

// Acquire blocks until a slot is free. The returned func releases the slot.
// A nil Gate admits everything.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if g == nil {
		return func() {}, nil
	}

	waitCtx := ctx
	if g.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.queueTimeout)
		defer cancel()
	}

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: request ended while waiting for a job slot: %w", ErrUnexpectedIO, ctx.Err())
		}
		return nil, fmt.Errorf("%w: no job slot free after %s", ErrOverloaded, g.queueTimeout)
	}

	return func() { g.sem.Release(1) }, nil
}
