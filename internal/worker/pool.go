// Package worker bounds how many requests are handled at once.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxWorkers matches the original thread-pool size.
const DefaultMaxWorkers = 10

// Pool runs functions with at most Capacity() of them in flight.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int
	inFlight atomic.Int64
}

// NewPool creates a pool with size slots. Non-positive sizes use DefaultMaxWorkers.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultMaxWorkers
	}
	return &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		capacity: size,
	}
}

// Do waits for a free slot and runs fn. ctx only applies while waiting; once
// fn starts it runs to completion.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for worker: %w", err)
	}
	defer p.sem.Release(1)

	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	fn()
	return nil
}

// Capacity returns the number of slots.
func (p *Pool) Capacity() int {
	return p.capacity
}

// InFlight returns how many functions are currently running.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}
