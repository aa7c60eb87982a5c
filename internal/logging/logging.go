// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Structured logger setup

package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w (stderr when nil).
// Verbose lowers the level to Debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
