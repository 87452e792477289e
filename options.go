package stagemap

import "log/slog"

type options struct {
	capacity         int64
	memoryLimit      int64
	ordered          bool
	putRateBytes     int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures staging area construction.
//
// Options exist alongside the fluent builders to avoid exploding the API
// surface with constructor variants; the builders assemble options under the
// hood.
type Option func(*options)

// WithCapacity bounds the number of elements (slot values) concurrently
// resident across all entries, complete and incomplete. 0 means unbounded.
//
// Producers block, FIFO-fair, while a put would exceed the bound.
func WithCapacity(n int64) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMemoryLimit bounds the byte total of all resident slot values, as
// measured by Value.SizeBytes. 0 means unbounded.
//
// May be combined with WithCapacity; a put must satisfy both bounds or it
// blocks.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithOrdered enables the ordered retrieval discipline: key-less GetAny
// returns the complete entry with the smallest key, so retrieval order is
// non-decreasing in key regardless of insertion order.
func WithOrdered() Option {
	return func(o *options) {
		o.ordered = true
	}
}

// WithPutRateLimit throttles producers to roughly bytesPerSec staged bytes
// per second (token bucket, burst = bytesPerSec). 0 disables throttling.
//
// The throttle is applied before admission, outside the area lock, so a
// rate-limited producer never holds up consumers. A single put larger than
// the burst cannot be throttled and fails.
func WithPutRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.putRateBytes = bytesPerSec
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &stagemap.BasicMetricsCollector{}
//	area, _ := stagemap.New[int64](schema, stagemap.WithMetricsCollector(metrics))
//	// ... use area ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := stagemap.NewJSONLogger(slog.LevelInfo)
//	area, _ := stagemap.New[int64](schema, stagemap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
