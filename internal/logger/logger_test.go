package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestLogger(t *testing.T) string {
	t.Helper()
	Close()
	path := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(func() {
		SetDebug(false)
		Close()
	})
	return path
}

func TestComponentWritesToFile(t *testing.T) {
	path := setupTestLogger(t)

	Component("section").Info("row inserted", "id", 42)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, want := range []string{"component=section", "row inserted", "id=42"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("Expected log file to contain %q, got:\n%s", want, content)
		}
	}
}

func TestSetDebug(t *testing.T) {
	path := setupTestLogger(t)
	log := Component("gesture")

	log.Debug("hidden-at-info")
	SetDebug(true)
	log.Debug("shown-at-debug")

	content, _ := os.ReadFile(path)
	if strings.Contains(string(content), "hidden-at-info") {
		t.Error("Expected debug record dropped at info level")
	}
	if !strings.Contains(string(content), "shown-at-debug") {
		t.Error("Expected debug record after SetDebug(true)")
	}
}

func TestComponentBeforeInit(t *testing.T) {
	Close()
	// Must not panic and must not write anywhere.
	Component("x").Error("nowhere")
	if Path() != "" {
		t.Errorf("Expected empty path before Init, got %s", Path())
	}
}

func TestInitBadPath(t *testing.T) {
	Close()
	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "log")); err == nil {
		t.Error("Expected error for an unwritable path")
	}
}
