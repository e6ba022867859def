// Package source discovers the images a batch operates on.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imageborder/internal/pipeline"
)

// Extensions accepted as sources, lower case and without the dot.
var Extensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
}

// IsSource reports whether name carries a source extension (case-insensitive).
// Names with an empty stem, such as ".png", have no extension.
func IsSource(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" || len(ext) == len(name) {
		return false
	}
	return Extensions[strings.ToLower(ext[1:])]
}

// List returns the source images directly inside dir, sorted by name.
// Subdirectories are not descended into. Errors wrap pipeline.ErrDirectory.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pipeline.ErrDirectory, dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSource(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
