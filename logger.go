package typehier

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with typehier-specific context.
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

// WithType adds a type field to the logger.
func (l *Logger) WithType(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogResolve logs a closure computation for a previously unseen type.
func (l *Logger) LogResolve(name string, ancestors int) {
	l.WithType(name).Debug("closure computed",
		"core_ancestors", ancestors,
	)
}

// LogWarm logs a cache warmup run.
func (l *Logger) LogWarm(ctx context.Context, count int, duration time.Duration, err error) {
	wl := l.WithCount(count)
	if err != nil {
		wl.WarnContext(ctx, "cache warmup aborted",
			"duration", duration,
			"error", err,
		)
	} else {
		wl.InfoContext(ctx, "cache warmup completed",
			"duration", duration,
		)
	}
}

// LogSnapshotLoad logs a core index snapshot load.
func (l *Logger) LogSnapshotLoad(ctx context.Context, name string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"snapshot", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"snapshot", name,
			"duration", duration,
		)
	}
}
