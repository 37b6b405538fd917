// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "complaints fetched", "count", n, "department", dept)
type Logger interface {
	// Debug logs diagnostic detail that is hidden by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backend names for New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger for the given format writing to w. The zap backend
// always writes JSON to stderr, as zap's production config does.
func New(format string, w io.Writer, debug bool) (Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, opts))), nil
	case FormatJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, opts))), nil
	case FormatZap:
		return NewProductionZapLogger(debug)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Sync flushes l when its backend buffers, as zap does. Other loggers
// return nil.
func Sync(l Logger) error {
	if s, ok := l.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
