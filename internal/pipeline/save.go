package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"imageborder/internal/storage"
)

// SaveEncoded encodes img per opts and writes it into outDir as the output
// for srcPath. The directory is created if missing.
func SaveEncoded(img image.Image, srcPath, outDir string, opts ExportOptions) (string, int64, error) {
	store := storage.New(outDir)
	if err := storage.EnsureDir(store.BaseDir); err != nil {
		return "", 0, fmt.Errorf("%w: create output dir: %w", ErrOutputWrite, err)
	}

	var buf bytes.Buffer
	n, err := Encode(&buf, img, opts)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: %w", ErrEncode, opts.Format, err)
	}

	path, err := store.Save(srcPath, opts.Format.Ext(), &buf)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return path, n, nil
}
