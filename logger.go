package vizsync

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// degradedInterval bounds how often degraded-state warnings are emitted.
const degradedInterval = time.Second

// Logger wraps slog.Logger with vizsync-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
	degraded *rate.Sometimes
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{Logger: l, degraded: &rate.Sometimes{First: 1, Interval: degradedInterval}}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return newLogger(slog.New(slog.DiscardHandler))
}

// WithView adds a view field to the logger.
func (l *Logger) WithView(name string) *Logger {
	return newLogger(l.Logger.With("view", name))
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim string) *Logger {
	return newLogger(l.Logger.With("dimension", dim))
}

// WithIndex adds a time index field to the logger.
func (l *Logger) WithIndex(index int) *Logger {
	return newLogger(l.Logger.With("index", index))
}

// LogDroppedKeys logs selected keys that vanished from the active dataset.
// Warnings are throttled; the Debug record is always written.
func (l *Logger) LogDroppedKeys(ctx context.Context, index int, dropped int) {
	l.DebugContext(ctx, "selection rebased", "index", index, "dropped", dropped)
	l.degraded.Do(func() {
		l.WarnContext(ctx, "selected keys missing from dataset",
			"index", index,
			"dropped", dropped,
		)
	})
}

// LogStaleResponse logs a discarded asynchronous load.
func (l *Logger) LogStaleResponse(ctx context.Context, seq, latest uint64, index int) {
	l.DebugContext(ctx, "stale load discarded",
		"seq", seq,
		"latest", latest,
		"index", index,
	)
}

// LogLoad logs a completed asynchronous load.
func (l *Logger) LogLoad(ctx context.Context, seq uint64, index, rows int, err error) {
	if err != nil {
		l.degraded.Do(func() {
			l.WarnContext(ctx, "load failed",
				"seq", seq,
				"index", index,
				"error", err,
			)
		})
		return
	}
	l.DebugContext(ctx, "load applied",
		"seq", seq,
		"index", index,
		"rows", rows,
	)
}

// LogData logs a data push.
func (l *Logger) LogData(ctx context.Context, labels, dimensions, records int) {
	l.InfoContext(ctx, "data applied",
		"labels", labels,
		"dimensions", dimensions,
		"records", records,
	)
}
