// ABOUTME: Bounded worker pool returning future handles for blocking calls
// ABOUTME: Keeps password hashing and SPF lookups off the threads driving storage

package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many offloaded tasks run at once. Its lifecycle is
// independent of the storage hub: there is no shutdown ordering between the
// two, so the pool has nothing to close.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a pool running at most size tasks concurrently.
// A non-positive size falls back to the number of CPUs.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Future is the handle for one submitted task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait blocks until the task finishes or ctx is done. Cancelling the wait
// abandons only the wait; the underlying call keeps running to completion
// since the external libraries offer no cooperative cancellation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit schedules task on the pool and returns its future immediately.
// If the pool is saturated the task queues until a slot frees up.
func Submit[T any](p *Pool, task func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			f.err = err
			return
		}
		defer p.sem.Release(1)
		f.val, f.err = task()
	}()
	return f
}
