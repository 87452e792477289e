// Package waitq implements a FIFO wait queue layered over an external mutex.
//
// It plays the role of a condition variable with two differences that matter
// for a blocking staging structure: waiters are woken in arrival order, and a
// wait can be abandoned through context cancellation, in which case the
// waiter deregisters itself so later notifications do not target it.
//
// All methods must be called with the external mutex held. Wait releases the
// mutex while suspended and reacquires it before returning, so callers keep
// the usual "check predicate in a loop" discipline.
package waitq

import (
	"context"
	"sync"
)

// Queue is a FIFO list of blocked waiters.
//
// The zero value is ready to use.
type Queue struct {
	waiters []*waiter
}

type waiter struct {
	ch   chan struct{}
	done bool
}

// Len returns the number of registered waiters.
func (q *Queue) Len() int {
	return len(q.waiters)
}

// Wait registers the caller at the tail of the queue and suspends until
// Broadcast wakes it or ctx is cancelled. The mutex is released while
// suspended and held again on return.
//
// On cancellation the waiter is removed from the queue and ctx.Err() is
// returned; the caller must re-check its predicate on a nil return, since a
// broadcast carries no payload.
func (q *Queue) Wait(ctx context.Context, mu *sync.Mutex) error {
	w := &waiter{ch: make(chan struct{})}
	q.waiters = append(q.waiters, w)

	mu.Unlock()
	select {
	case <-w.ch:
		mu.Lock()
		return nil
	case <-ctx.Done():
		mu.Lock()
		if !w.done {
			q.remove(w)
			w.done = true
		}
		return ctx.Err()
	}
}

// Broadcast wakes every registered waiter and empties the queue.
func (q *Queue) Broadcast() {
	for _, w := range q.waiters {
		w.done = true
		close(w.ch)
	}
	q.waiters = nil
}

func (q *Queue) remove(w *waiter) {
	for i, cand := range q.waiters {
		if cand == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}
