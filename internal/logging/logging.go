package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New returns a JSON logger appending to path. An empty path, or one that
// cannot be opened, gives a logger that discards everything; the terminal
// belongs to the TUI.
func New(path string) (*slog.Logger, io.Closer) {
	if path == "" {
		return discard(), nopCloser{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard(), nopCloser{}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard(), nopCloser{}
	}
	return slog.New(slog.NewJSONHandler(f, nil)), f
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
