// Package logging builds the zerolog loggers used by devroster.
//
// The TUI owns the terminal, so it logs to a file. Everything else logs to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Console returns a human-readable logger writing to w (os.Stderr when nil).
func Console(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// File opens (creating directories as needed) an append-only JSON log at path.
// The returned closer must be called on exit.
func File(path string, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	l := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return l, f, nil
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger { return zerolog.Nop() }
