package memsnap

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memsnap-specific context.
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

// WithSize adds a size field to the logger.
func (l *Logger) WithSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", size),
	}
}

// WithMode adds a view mode field to the logger.
func (l *Logger) WithMode(mode ViewMode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// LogSnapshot logs a snapshot construction.
func (l *Logger) LogSnapshot(source string, size int, err error) {
	if err != nil {
		l.Error("snapshot failed",
			"source", source,
			"error", err,
		)
	} else {
		l.Debug("snapshot created",
			"source", source,
			"size", size,
		)
	}
}

// LogViewCreate logs a view creation.
func (l *Logger) LogViewCreate(mode ViewMode, size int, err error) {
	if err != nil {
		l.Error("view failed",
			"mode", mode.String(),
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("view mapped",
			"mode", mode.String(),
			"size", size,
		)
	}
}

// LogRestore logs a view restore.
func (l *Logger) LogRestore(addr uintptr, err error) {
	if err != nil {
		l.Error("restore failed",
			"addr", addr,
			"error", err,
		)
	} else {
		l.Debug("view restored",
			"addr", addr,
		)
	}
}

// LogProtect logs a page-protection change.
func (l *Logger) LogProtect(off, n int, allow Access, err error) {
	if err != nil {
		l.Error("protect failed",
			"off", off,
			"len", n,
			"access", allow.String(),
			"error", err,
		)
	} else {
		l.Debug("protection applied",
			"off", off,
			"len", n,
			"access", allow.String(),
		)
	}
}
