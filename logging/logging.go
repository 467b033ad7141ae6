// ABOUTME: Structured logging setup on log/slog
// ABOUTME: Builds text/JSON loggers and emits timed use-case events
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New builds a logger writing to w (stderr when nil). Unknown levels fall back to info.
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Used by tests and as a nil fallback.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Observe logs one service use case with its duration and outcome.
func Observe(ctx context.Context, logger *slog.Logger, useCase string, start time.Time, err error, fields ...any) {
	if logger == nil {
		return
	}
	attrs := make([]any, 0, 6+len(fields))
	attrs = append(attrs,
		"use_case", useCase,
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	)
	attrs = append(attrs, fields...)
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	logger.InfoContext(ctx, "service_use_case", attrs...)
}
