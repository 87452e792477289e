package stagemap

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with stagemap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKey adds a key field to the logger (useful for tagging operations).
func (l *Logger) WithKey(key any) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithSlots adds a slot-count field to the logger.
func (l *Logger) WithSlots(slots int) *Logger {
	return &Logger{
		Logger: l.Logger.With("slots", slots),
	}
}

// LogPut logs a put operation.
func (l *Logger) LogPut(ctx context.Context, key any, slots int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "put failed",
			"key", key,
			"slots", slots,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "put completed",
			"key", key,
			"slots", slots,
		)
	}
}

// LogGet logs a get operation.
func (l *Logger) LogGet(ctx context.Context, key any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get completed",
			"key", key,
		)
	}
}

// LogPeek logs a peek operation.
func (l *Logger) LogPeek(ctx context.Context, key any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "peek failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "peek completed",
			"key", key,
		)
	}
}

// LogClear logs a clear operation.
func (l *Logger) LogClear(removed int) {
	l.Info("staging area cleared",
		"removed", removed,
	)
}

// LogClose logs area shutdown.
func (l *Logger) LogClose() {
	l.Info("staging area closed")
}
