package trajfilter

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"time"
)

// Logger wraps slog.Logger with filter-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// WithFilter adds the filter name.
func (l *Logger) WithFilter(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("filter", name),
	}
}

// WithTrace adds the trace name (useful for tagging replay runs).
func (l *Logger) WithTrace(trace string) *Logger {
	return &Logger{
		Logger: l.Logger.With("trace", trace),
	}
}

// WithCandidate adds a candidate id.
func (l *Logger) WithCandidate(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("candidate", id),
	}
}

// LogDecision logs a filter decision at debug level.
func (l *Logger) LogDecision(d Decision, cached bool) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("decision",
		"outcome", d.Outcome.String(),
		"continue", d.Continue(),
		"pt", d.PT,
		"inv_pt_error", d.InvPtError,
		"cached", cached,
	)
}

// LogReplay logs the end of a replay run.
func (l *Logger) LogReplay(ctx context.Context, candidates, accepted int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "replay failed",
			"candidates", candidates,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "replay completed",
			"candidates", candidates,
			"accepted", accepted,
			"elapsed", elapsed,
		)
	}
}

// LogReport logs a report write.
func (l *Logger) LogReport(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "report write failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "report written",
			"name", name,
		)
	}
}
