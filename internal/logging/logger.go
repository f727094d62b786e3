// Package logging builds the structured logger shared by all components.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type ctxKey string

const ctxKeyCommand ctxKey = "command"

// Options configures New.
type Options struct {
	// Path is the log file. Ignored when Writer is set.
	Path string
	// Writer overrides the destination.
	Writer io.Writer
	// Level is one of debug, info, warn, error.
	Level string
}

// New returns a JSON logger and a closer for the underlying file. The TUI
// owns the terminal, so logs never go to stdout.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w := opts.Writer
	var closer io.Closer = nopCloser{}
	if w == nil {
		if opts.Path == "" {
			return slog.New(slog.DiscardHandler), closer, nil
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithFields returns a logger with additional fields.
func WithFields(logger *slog.Logger, kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithCommand stores the running command name in the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxKeyCommand, name)
}

// FromContext adds the command name to logger if present.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	name, _ := ctx.Value(ctxKeyCommand).(string)
	if name == "" {
		return logger
	}
	return logger.With("command", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
