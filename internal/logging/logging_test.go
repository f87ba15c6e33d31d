package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "standup.log")
	logger, closer := New(path)
	logger.Info("item added", "date", "2024-01-02")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"item added"`) || !strings.Contains(string(data), `"date":"2024-01-02"`) {
		t.Fatalf("unexpected log output: %s", data)
	}
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	logger, closer := New("")
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
