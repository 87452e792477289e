// Package stagemap provides a concurrent bounded staging map.
//
// This file implements the fluent builder APIs for creating and configuring
// staging areas. Builders are immutable - each method returns a new builder
// with the updated configuration.
package stagemap

import "cmp"

// Map creates a builder for an unordered staging area with the given number
// of slots per tuple.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	area, err := stagemap.Map[int64](2).
//	    Named("input", "target").
//	    Capacity(64).
//	    Build()
func Map[K cmp.Ordered](slots int) Builder[K] {
	return Builder[K]{slots: slots}
}

// OrderedMap creates a builder for an ordered staging area: key-less GetAny
// returns entries in non-decreasing key order.
func OrderedMap[K cmp.Ordered](slots int) Builder[K] {
	b := Map[K](slots)
	b.ordered = true
	return b
}

// Builder is an immutable fluent builder for creating staging areas.
// Each method returns a new builder with the updated configuration.
type Builder[K cmp.Ordered] struct {
	slots       int
	names       []string
	capacity    int64
	memoryLimit int64
	ordered     bool
	putRate     int64
	logger      *Logger
	metrics     MetricsCollector
}

// Named assigns a unique name to every slot. len(names) must equal the slot
// count passed to Map/OrderedMap.
func (b Builder[K]) Named(names ...string) Builder[K] {
	b.names = names
	return b
}

// Capacity bounds the number of resident elements (slot values).
// Default: 0 (unbounded).
func (b Builder[K]) Capacity(n int64) Builder[K] {
	b.capacity = n
	return b
}

// MemoryLimit bounds the resident byte total.
// Default: 0 (unbounded).
func (b Builder[K]) MemoryLimit(bytes int64) Builder[K] {
	b.memoryLimit = bytes
	return b
}

// PutRateLimit throttles producers to bytesPerSec staged bytes per second.
// Default: 0 (no throttling).
func (b Builder[K]) PutRateLimit(bytesPerSec int64) Builder[K] {
	b.putRate = bytesPerSec
	return b
}

// Logger configures structured logging for operations.
func (b Builder[K]) Logger(logger *Logger) Builder[K] {
	b.logger = logger
	return b
}

// Metrics configures a metrics collector.
func (b Builder[K]) Metrics(mc MetricsCollector) Builder[K] {
	b.metrics = mc
	return b
}

// Build creates the staging area.
func (b Builder[K]) Build() (*Area[K], error) {
	opts := []Option{
		WithCapacity(b.capacity),
		WithMemoryLimit(b.memoryLimit),
	}
	if b.ordered {
		opts = append(opts, WithOrdered())
	}
	if b.putRate > 0 {
		opts = append(opts, WithPutRateLimit(b.putRate))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return New[K](Schema{Slots: b.slots, Names: b.names}, opts...)
}
