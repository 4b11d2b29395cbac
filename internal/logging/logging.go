package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the process logger. With a file path the log stream is
// appended to that file as timestamped text lines; with an empty path it is
// JSON on stdout. The returned closer owns the file handle.
func New(level, file string) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: levelFromString(level)}

	if file == "" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", file, err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
