package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDirs creates an input and an output directory under t.TempDir().
// The output directory is not created, so callers also exercise creation.
func SetupTestDirs(t *testing.T) (inDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	inDir = filepath.Join(root, "in")
	if err := os.MkdirAll(inDir, 0o755); err != nil {
		t.Fatalf("failed to create input directory: %v", err)
	}
	return inDir, filepath.Join(root, "out", "nested")
}
