package stagemap

import (
	"cmp"
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/stagemap/internal/admission"
	"github.com/hupe1980/stagemap/internal/entry"
	"github.com/hupe1980/stagemap/internal/keyindex"
	"github.com/hupe1980/stagemap/internal/waitq"
)

// Area is a concurrent bounded staging map keyed by an ordering-comparable
// scalar. See the package documentation for an overview.
//
// All methods are safe for concurrent use by multiple goroutines.
type Area[K cmp.Ordered] struct {
	schema  Schema
	nameIdx map[string]int

	logger  *Logger
	metrics MetricsCollector
	limiter *rate.Limiter

	// mu guards everything below. The gate and the wait queue borrow it,
	// so entry mutation, index maintenance and admission accounting are
	// linearized through a single critical section per operation.
	mu         sync.Mutex
	closed     bool
	complete   map[K]*entry.Entry
	incomplete map[K]*entry.Entry
	index      *keyindex.Index[K] // nil unless ordered
	gate       *admission.Gate
	ready      waitq.Queue // consumers waiting for a completeness change
}

// New creates a staging area with the given slot schema.
//
// By default the area is unbounded and unordered; see WithCapacity,
// WithMemoryLimit and WithOrdered.
func New[K cmp.Ordered](schema Schema, optFns ...Option) (*Area[K], error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	a := &Area[K]{
		schema:     schema,
		nameIdx:    schema.nameIndex(),
		logger:     o.logger,
		metrics:    o.metricsCollector,
		complete:   make(map[K]*entry.Entry),
		incomplete: make(map[K]*entry.Entry),
	}
	a.gate = admission.NewGate(&a.mu, admission.Config{
		Capacity:         o.capacity,
		MemoryLimitBytes: o.memoryLimit,
	})
	if o.ordered {
		a.index = keyindex.New[K]()
	}
	if o.putRateBytes > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(o.putRateBytes), int(o.putRateBytes))
	}
	return a, nil
}

// Put stages the tuple's slot values under key, creating the entry on the
// first write for a fresh key. The tuple may cover any subset of the slots;
// the entry becomes retrievable once every slot has been written.
//
// Put blocks while admitting the new values would exceed the configured
// capacity or memory limit, and unblocks as consumers free budget. Blocked
// producers are admitted in arrival order. Cancelling ctx abandons the wait
// with no side effect.
//
// Writing a slot that is already set for an unconsumed entry is a usage
// error; the call is then an atomic no-op. Concurrent producers targeting
// the same key must write disjoint slot subsets.
func (a *Area[K]) Put(ctx context.Context, key K, tuple Tuple) error {
	start := time.Now()
	err := translateError(a.put(ctx, key, tuple))
	a.metrics.RecordPut(time.Since(start), err)
	a.logger.LogPut(ctx, key, len(tuple.values), err)
	return err
}

func (a *Area[K]) put(ctx context.Context, key K, tuple Tuple) error {
	writes, err := a.schema.resolve(tuple, a.nameIdx)
	if err != nil {
		return err
	}
	elements := int64(len(writes))
	var bytes int64
	for _, w := range writes {
		bytes += w.size
	}

	// Producer throttling happens before admission and outside the lock,
	// so a rate-limited producer cannot hold up consumers.
	if a.limiter != nil && bytes > 0 {
		if err := a.limiter.WaitN(ctx, int(bytes)); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	// Cheap precondition check before potentially blocking on admission:
	// a doomed put should fail now rather than queue forever.
	if err := a.conflictLocked(key, writes); err != nil {
		return err
	}

	if err := a.gate.Acquire(ctx, elements, bytes); err != nil {
		return err
	}

	// The lock was released while blocked on admission; the world may
	// have moved. On any failure the reservation is handed back, leaving
	// the structure unchanged.
	if a.closed {
		a.gate.Release(elements, bytes)
		return ErrClosed
	}
	if err := a.conflictLocked(key, writes); err != nil {
		a.gate.Release(elements, bytes)
		return err
	}

	e, ok := a.incomplete[key]
	if !ok {
		e = entry.New(a.schema.Slots)
		a.incomplete[key] = e
	}
	for _, w := range writes {
		e.Set(w.slot, w.value, w.size)
	}

	if e.Complete() {
		delete(a.incomplete, key)
		a.complete[key] = e
		if a.index != nil {
			a.index.Insert(key)
		}
		a.ready.Broadcast()
	}
	return nil
}

// conflictLocked reports the usage fault for writes targeting already-set
// slots of an unconsumed entry under key.
func (a *Area[K]) conflictLocked(key K, writes []slotWrite) error {
	if e, ok := a.incomplete[key]; ok {
		for _, w := range writes {
			if e.Has(w.slot) {
				return &ErrSlotAlreadySet{Slot: w.slot, Name: a.schema.nameOf(w.slot)}
			}
		}
		return nil
	}
	if _, ok := a.complete[key]; ok {
		// Every slot of a complete entry is set.
		w := writes[0]
		return &ErrSlotAlreadySet{Slot: w.slot, Name: a.schema.nameOf(w.slot)}
	}
	return nil
}

// Get blocks until the entry for key is complete, then atomically removes it
// and returns its values. The freed admission budget wakes blocked
// producers. Cancelling ctx abandons the wait with no side effect.
func (a *Area[K]) Get(ctx context.Context, key K) (Result, error) {
	start := time.Now()
	res, err := a.get(ctx, key)
	err = translateError(err)
	a.metrics.RecordGet(time.Since(start), err)
	a.logger.LogGet(ctx, key, err)
	return res, err
}

func (a *Area[K]) get(ctx context.Context, key K) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		if a.closed {
			return Result{}, ErrClosed
		}
		if e, ok := a.complete[key]; ok {
			a.removeLocked(key, e)
			return a.resultOf(e), nil
		}
		if err := a.ready.Wait(ctx, &a.mu); err != nil {
			return Result{}, err
		}
	}
}

// GetAny blocks until some complete entry exists, removes it and returns its
// key and values.
//
// In ordered mode GetAny returns the complete entry with the smallest key,
// so successive calls observe non-decreasing keys regardless of insertion
// order. In unordered mode the choice among complete entries is arbitrary.
func (a *Area[K]) GetAny(ctx context.Context) (K, Result, error) {
	start := time.Now()
	key, res, err := a.getAny(ctx)
	err = translateError(err)
	a.metrics.RecordGet(time.Since(start), err)
	a.logger.LogGet(ctx, key, err)
	return key, res, err
}

func (a *Area[K]) getAny(ctx context.Context) (K, Result, error) {
	var zero K

	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		if a.closed {
			return zero, Result{}, ErrClosed
		}
		if a.index != nil {
			if key, ok := a.index.Min(); ok {
				e := a.complete[key]
				a.removeLocked(key, e)
				return key, a.resultOf(e), nil
			}
		} else {
			for key, e := range a.complete {
				a.removeLocked(key, e)
				return key, a.resultOf(e), nil
			}
		}
		if err := a.ready.Wait(ctx, &a.mu); err != nil {
			return zero, Result{}, err
		}
	}
}

// Peek blocks until the entry for key is complete and returns a snapshot of
// its values without removing it. Peek does not interact with admission
// accounting; repeated peeks are safe.
func (a *Area[K]) Peek(ctx context.Context, key K) (Result, error) {
	start := time.Now()
	res, err := a.peek(ctx, key)
	err = translateError(err)
	a.metrics.RecordPeek(time.Since(start), err)
	a.logger.LogPeek(ctx, key, err)
	return res, err
}

func (a *Area[K]) peek(ctx context.Context, key K) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		if a.closed {
			return Result{}, ErrClosed
		}
		if e, ok := a.complete[key]; ok {
			return a.resultOf(e), nil
		}
		if err := a.ready.Wait(ctx, &a.mu); err != nil {
			return Result{}, err
		}
	}
}

// Size returns the number of complete entries currently resident.
func (a *Area[K]) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.complete)
}

// IncompleteSize returns the number of entries currently accumulating.
func (a *Area[K]) IncompleteSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.incomplete)
}

// Elements returns the number of resident slot values, complete and
// incomplete.
func (a *Area[K]) Elements() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gate.Elements()
}

// MemoryUsage returns the resident byte total.
func (a *Area[K]) MemoryUsage() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gate.Bytes()
}

// Capacity returns the configured element capacity (0 if unbounded).
func (a *Area[K]) Capacity() int64 { return a.gate.Capacity() }

// MemoryLimit returns the configured memory limit in bytes (0 if unbounded).
func (a *Area[K]) MemoryLimit() int64 { return a.gate.MemoryLimit() }

// Ordered reports whether the area retrieves key-less gets in key order.
func (a *Area[K]) Ordered() bool { return a.index != nil }

// NumSlots returns the slot count N of the schema.
func (a *Area[K]) NumSlots() int { return a.schema.Slots }

// SlotNames returns the slot names, or nil for an unnamed schema.
func (a *Area[K]) SlotNames() []string { return a.schema.Names }

// Clear unconditionally removes every entry, complete and incomplete,
// resets the admission budgets and wakes all blocked producers and
// consumers. Woken consumers re-check their predicate and, their target
// entry being gone, block again until a fresh entry appears.
func (a *Area[K]) Clear() {
	a.mu.Lock()
	removed := len(a.complete) + len(a.incomplete)
	clear(a.complete)
	clear(a.incomplete)
	if a.index != nil {
		a.index.Clear()
	}
	a.gate.Reset()
	a.ready.Broadcast()
	a.mu.Unlock()

	a.metrics.RecordClear(removed)
	a.logger.LogClear(removed)
}

// Close marks the area closed and wakes every blocked producer and consumer
// with ErrClosed. Subsequent operations fail fast. Close is idempotent and
// never blocks.
func (a *Area[K]) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.gate.Close()
	a.ready.Broadcast()
	a.mu.Unlock()

	a.logger.LogClose()
	return nil
}

// removeLocked unlinks a complete entry and returns its admission budget,
// waking blocked producers in arrival order.
func (a *Area[K]) removeLocked(key K, e *entry.Entry) {
	delete(a.complete, key)
	if a.index != nil {
		a.index.Delete(key)
	}
	a.gate.Release(int64(e.Filled()), e.Bytes())
}

func (a *Area[K]) resultOf(e *entry.Entry) Result {
	vals := e.Values()
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i], _ = v.(Value)
	}
	return Result{values: values, names: a.nameIdx}
}
