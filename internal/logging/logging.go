// Package logging configures structured logging for the pipeline.
//
// Human-facing progress goes through internal/output; slog carries the
// structured record of what a run did, either to stderr or to a file when
// configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds the logger for a run and returns it with a cleanup
// function. With an empty filePath logs go to stderr only.
func Setup(level, filePath string) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stderr
	cleanup := func() {}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(f, os.Stderr)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler), cleanup, nil
}

// ParseLevel maps a level name to its slog level; unknown names fall back
// to info.
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
