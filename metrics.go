package stagemap

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Durations include any time spent blocked: on admission for puts, on entry
// completeness for gets and peeks.
type MetricsCollector interface {
	// RecordPut is called after each put operation.
	// duration is the total time taken, err is nil if successful.
	RecordPut(duration time.Duration, err error)

	// RecordGet is called after each get operation (keyed or key-less).
	RecordGet(duration time.Duration, err error)

	// RecordPeek is called after each peek operation.
	RecordPeek(duration time.Duration, err error)

	// RecordClear is called after each clear with the number of entries
	// removed, complete and incomplete.
	RecordClear(removed int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, error)  {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)  {}
func (NoopMetricsCollector) RecordPeek(time.Duration, error) {}
func (NoopMetricsCollector) RecordClear(int)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PutCount       atomic.Int64
	PutErrors      atomic.Int64
	PutTotalNanos  atomic.Int64
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
	GetTotalNanos  atomic.Int64
	PeekCount      atomic.Int64
	PeekErrors     atomic.Int64
	PeekTotalNanos atomic.Int64
	ClearCount     atomic.Int64
	ClearRemoved   atomic.Int64
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(duration time.Duration, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PutErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordPeek implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPeek(duration time.Duration, err error) {
	b.PeekCount.Add(1)
	b.PeekTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PeekErrors.Add(1)
	}
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(removed int) {
	b.ClearCount.Add(1)
	b.ClearRemoved.Add(int64(removed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PutCount:     b.PutCount.Load(),
		PutErrors:    b.PutErrors.Load(),
		PutAvgNanos:  avgNanos(&b.PutTotalNanos, &b.PutCount),
		GetCount:     b.GetCount.Load(),
		GetErrors:    b.GetErrors.Load(),
		GetAvgNanos:  avgNanos(&b.GetTotalNanos, &b.GetCount),
		PeekCount:    b.PeekCount.Load(),
		PeekErrors:   b.PeekErrors.Load(),
		PeekAvgNanos: avgNanos(&b.PeekTotalNanos, &b.PeekCount),
		ClearCount:   b.ClearCount.Load(),
		ClearRemoved: b.ClearRemoved.Load(),
	}
}

func avgNanos(total, count *atomic.Int64) int64 {
	n := count.Load()
	if n == 0 {
		return 0
	}
	return total.Load() / n
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PutCount     int64
	PutErrors    int64
	PutAvgNanos  int64
	GetCount     int64
	GetErrors    int64
	GetAvgNanos  int64
	PeekCount    int64
	PeekErrors   int64
	PeekAvgNanos int64
	ClearCount   int64
	ClearRemoved int64
}
