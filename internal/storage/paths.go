package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputSuffix is appended to the source stem of every written file.
const OutputSuffix = "_bordered"

// OutputPath returns the path written for srcPath using layout:
// {dir}/{stem}_bordered.{ext}
func OutputPath(dir, srcPath, ext string) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return filepath.Join(dir, fmt.Sprintf("%s%s.%s", stem, OutputSuffix, ext))
}
