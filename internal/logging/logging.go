// Package logging wires up structured logging with log/slog, a rotating
// file writer, and TTY-aware output formatting, mirroring the teacher
// repo's internal/logging package.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// Config controls Setup. MaxSizeMB and MaxFiles bound the rotating log file;
// WriteToStderr additionally tees records to stderr (pretty-printed when
// stderr is a terminal).
type Config struct {
	Level         slog.Level
	FilePath      string
	MaxSizeMB     int
	MaxFiles      int
	WriteToStderr bool
}

// DefaultConfig returns a reasonable default: info level, stderr only.
func DefaultConfig() Config {
	return Config{
		Level:         slog.LevelInfo,
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: true,
	}
}

// Setup builds the process logger and returns a cleanup function that
// closes the underlying file, if any. The file stream is always JSON; when
// also writing to stderr, a terminal gets a human-readable text handler
// while a redirected/piped stderr gets JSON, matching the teacher's CLI.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	handlerOpts := &slog.HandlerOptions{Level: cfg.Level}
	var handlers []slog.Handler
	cleanup := func() {}

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, cleanup, fmt.Errorf("logging: create log dir: %w", err)
		}
		rw, err := newRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, cleanup, fmt.Errorf("logging: open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(rw, handlerOpts))
		cleanup = func() { _ = rw.Close() }
	}

	if cfg.WriteToStderr || len(handlers) == 0 {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			handlers = append(handlers, slog.NewTextHandler(os.Stderr, handlerOpts))
		} else {
			handlers = append(handlers, slog.NewJSONHandler(os.Stderr, handlerOpts))
		}
	}

	logger := slog.New(fanoutHandler{handlers: handlers})
	return logger, cleanup, nil
}
