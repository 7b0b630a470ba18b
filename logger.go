package cbrw

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cbrw-specific helpers.
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

// LogObservations logs an observation batch being folded in.
func (l *Logger) LogObservations(ctx context.Context, added, skipped int) {
	if skipped > 0 {
		l.DebugContext(ctx, "observations added with skips",
			"added", added,
			"skipped", skipped,
		)
	} else {
		l.DebugContext(ctx, "observations added",
			"added", added,
		)
	}
}

// LogFit logs a fit operation. A fit that hits the iteration cap is
// reported as a warning, not an error.
func (l *Logger) LogFit(ctx context.Context, info FitInfo, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"error", err,
		)
		return
	}
	if !info.Converged && info.Values > 0 {
		l.WarnContext(ctx, "fit did not converge within iteration cap",
			"iterations", info.Iterations,
			"residual", info.Residual,
			"values", info.Values,
		)
		return
	}
	l.InfoContext(ctx, "fit completed",
		"observations", info.Observations,
		"values", info.Values,
		"iterations", info.Iterations,
		"components", info.Components,
	)
}

// LogSnapshot logs a snapshot save or load against a named store entry.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
	)
}

// LogScore logs a scoring operation.
func (l *Logger) LogScore(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "score failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "score completed",
			"count", count,
		)
	}
}
