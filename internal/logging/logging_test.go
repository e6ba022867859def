package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := New(lvl, false, "")
		if err != nil {
			t.Fatalf("level %s: %v", lvl, err)
		}
		if !log.Core().Enabled(log.Level()) {
			t.Fatalf("level %s: logger not enabled at its own level", lvl)
		}
	}
}

func TestNew_Development(t *testing.T) {
	if _, err := New("debug", true, ""); err != nil {
		t.Fatalf("development logger: %v", err)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("loud", false, ""); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "border.log")
	log, err := New("info", true, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("below level")
	log.Info("border added")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"msg":"border added"`) {
		t.Fatalf("expected JSON entry in log file, got %q", out)
	}
	if strings.Contains(out, "below level") {
		t.Fatalf("debug entry written at info level")
	}
}
