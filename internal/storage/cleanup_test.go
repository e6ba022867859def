package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"imageborder/internal/storage"
)

func TestCleanOrphanedTempFiles(t *testing.T) {
	tmp := t.TempDir()
	oldTemp := filepath.Join(tmp, ".tmp-old")
	newTemp := filepath.Join(tmp, ".tmp-new")
	output := filepath.Join(tmp, "cat_bordered.png")

	for _, p := range []string{oldTemp, newTemp, output} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	// outputs are never touched, however old
	old := time.Now().Add(-time.Hour)
	for _, p := range []string{oldTemp, output} {
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatalf("chtimes %s: %v", p, err)
		}
	}

	n, err := storage.CleanOrphanedTempFiles(tmp, 15*time.Minute)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removal, got %d", n)
	}
	if _, err := os.Stat(oldTemp); !os.IsNotExist(err) {
		t.Fatalf("expected old temp removed, stat err: %v", err)
	}
	for _, p := range []string{newTemp, output} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to remain: %v", p, err)
		}
	}
}

func TestCleanOrphanedTempFiles_MissingDir(t *testing.T) {
	n, err := storage.CleanOrphanedTempFiles(filepath.Join(t.TempDir(), "absent"), time.Minute)
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil) for missing dir, got (%d, %v)", n, err)
	}
}
