package admission

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Acquire when the gate has been shut down.
var ErrClosed = errors.New("admission gate closed")

// ErrRequestTooLarge indicates a request that exceeds a configured limit on
// its own and therefore could never be admitted.
type ErrRequestTooLarge struct {
	Elements    int64
	Capacity    int64
	Bytes       int64
	MemoryLimit int64
}

func (e *ErrRequestTooLarge) Error() string {
	return fmt.Sprintf("request of %d elements / %d bytes exceeds limits (capacity %d, memory limit %d)",
		e.Elements, e.Bytes, e.Capacity, e.MemoryLimit)
}

// Config holds the admission limits. Zero means unbounded.
type Config struct {
	// Capacity is the maximum number of resident elements (slot values).
	Capacity int64

	// MemoryLimitBytes is the maximum resident byte total.
	MemoryLimitBytes int64
}

// Gate admits element/byte requests against both budgets, blocking producers
// in FIFO order while either budget is exhausted.
type Gate struct {
	mu  *sync.Mutex // borrowed from the owning structure
	cfg Config

	elements int64
	bytes    int64

	waiters []*request
	closed  bool
}

type request struct {
	elements int64
	bytes    int64
	granted  chan error // buffered; receives nil on grant or ErrClosed
}

// NewGate creates a gate that shares mu with its owning structure.
func NewGate(mu *sync.Mutex, cfg Config) *Gate {
	return &Gate{mu: mu, cfg: cfg}
}

// Acquire reserves elements and bytes, blocking while the reservation does
// not fit. Must be called with the shared mutex held; the mutex is released
// while blocked and held again on return.
//
// On context cancellation the waiter is deregistered and no budget is held;
// a grant that raced with the cancellation is handed back.
func (g *Gate) Acquire(ctx context.Context, elements, bytes int64) error {
	if g.closed {
		return ErrClosed
	}
	if err := g.admissible(elements, bytes); err != nil {
		return err
	}

	// Fast path only when nobody is queued, so late arrivals cannot
	// overtake blocked producers.
	if len(g.waiters) == 0 && g.fits(elements, bytes) {
		g.elements += elements
		g.bytes += bytes
		return nil
	}

	r := &request{elements: elements, bytes: bytes, granted: make(chan error, 1)}
	g.waiters = append(g.waiters, r)

	g.mu.Unlock()
	select {
	case err := <-r.granted:
		g.mu.Lock()
		return err
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case err := <-r.granted:
			if err == nil {
				// Granted concurrently with cancellation; the caller
				// is abandoning the reservation.
				g.release(r.elements, r.bytes)
			}
		default:
			g.removeWaiter(r)
			// The departed request may have been gating the queue head.
			g.grant()
		}
		return ctx.Err()
	}
}

// Release returns elements and bytes to the budgets and grants as many
// blocked requests as now fit, head first. Must be called with the shared
// mutex held.
func (g *Gate) Release(elements, bytes int64) {
	g.release(elements, bytes)
}

// Reset zeroes both budgets and re-runs the grant loop. Used when the owning
// structure is cleared. Must be called with the shared mutex held.
func (g *Gate) Reset() {
	g.elements = 0
	g.bytes = 0
	g.grant()
}

// Close fails every blocked request with ErrClosed and rejects future
// acquires. Must be called with the shared mutex held.
func (g *Gate) Close() {
	g.closed = true
	for _, r := range g.waiters {
		r.granted <- ErrClosed
	}
	g.waiters = nil
}

// Elements returns the number of currently resident elements.
func (g *Gate) Elements() int64 {
	return g.elements
}

// Bytes returns the currently resident byte total.
func (g *Gate) Bytes() int64 {
	return g.bytes
}

// Capacity returns the configured element capacity (0 if unbounded).
func (g *Gate) Capacity() int64 {
	return g.cfg.Capacity
}

// MemoryLimit returns the configured memory limit in bytes (0 if unbounded).
func (g *Gate) MemoryLimit() int64 {
	return g.cfg.MemoryLimitBytes
}

// Waiting returns the number of blocked requests.
func (g *Gate) Waiting() int {
	return len(g.waiters)
}

func (g *Gate) release(elements, bytes int64) {
	g.elements -= elements
	g.bytes -= bytes
	g.grant()
}

// grant admits blocked requests strictly in FIFO order. The head request
// blocks everything behind it until it fits, which is what rules out
// starvation of large requests.
func (g *Gate) grant() {
	for len(g.waiters) > 0 {
		head := g.waiters[0]
		if !g.fits(head.elements, head.bytes) {
			return
		}
		g.elements += head.elements
		g.bytes += head.bytes
		g.waiters = g.waiters[1:]
		head.granted <- nil
	}
}

func (g *Gate) fits(elements, bytes int64) bool {
	if g.cfg.Capacity > 0 && g.elements+elements > g.cfg.Capacity {
		return false
	}
	if g.cfg.MemoryLimitBytes > 0 && g.bytes+bytes > g.cfg.MemoryLimitBytes {
		return false
	}
	return true
}

func (g *Gate) admissible(elements, bytes int64) error {
	tooMany := g.cfg.Capacity > 0 && elements > g.cfg.Capacity
	tooBig := g.cfg.MemoryLimitBytes > 0 && bytes > g.cfg.MemoryLimitBytes
	if tooMany || tooBig {
		return &ErrRequestTooLarge{
			Elements:    elements,
			Capacity:    g.cfg.Capacity,
			Bytes:       bytes,
			MemoryLimit: g.cfg.MemoryLimitBytes,
		}
	}
	return nil
}

func (g *Gate) removeWaiter(r *request) {
	for i, cand := range g.waiters {
		if cand == r {
			g.waiters = append(g.waiters[:i], g.waiters[i+1:]...)
			return
		}
	}
}
