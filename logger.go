package idset

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with idset-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithFunction adds a function name field to the logger.
func (l *Logger) WithFunction(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("function", name),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// WithSet adds a stored set name field to the logger.
func (l *Logger) WithSet(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("set", name),
	}
}

// LogCall logs a scalar function call over a batch.
func (l *Logger) LogCall(ctx context.Context, function string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "call failed",
			"function", function,
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "call completed",
			"function", function,
			"rows", rows,
		)
	}
}

// LogAggregate logs a grouped aggregate.
func (l *Logger) LogAggregate(ctx context.Context, function string, rows, groups, shards int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregate failed",
			"function", function,
			"rows", rows,
			"groups", groups,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "aggregate completed",
			"function", function,
			"rows", rows,
			"groups", groups,
			"shards", shards,
		)
	}
}

// LogDegraded logs a data fault that was folded into a value.
func (l *Logger) LogDegraded(ctx context.Context, function string, reason DegradeReason, row int) {
	l.DebugContext(ctx, "input degraded",
		"function", function,
		"reason", string(reason),
		"row", row,
	)
}

// LogStore logs a set store operation.
func (l *Logger) LogStore(ctx context.Context, op, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "store operation failed",
			"op", op,
			"set", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store operation completed",
			"op", op,
			"set", name,
			"bytes", size,
		)
	}
}
