package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Load opens path and decodes it. When autoOrient is set the EXIF
// orientation tag is applied to the decoded pixels.
func Load(path string, autoOrient bool) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	img, data, err := ValidateAndDecode(f, MaxSourceBytes)
	if err != nil {
		return nil, err
	}
	if autoOrient {
		img, _ = ApplyEXIFOrientation(img, bytes.NewReader(data))
	}
	return img, nil
}

// ValidateAndDecode reads up to maxBytes from r, decodes any registered
// format and validates dimensions (MaxDimension). The raw bytes are returned
// alongside the image so metadata can be read without reopening the file.
func ValidateAndDecode(r io.Reader, maxBytes int64) (image.Image, []byte, error) {
	// read up to maxBytes+1 to detect overflow
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, nil, ErrNotAnImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, nil, ErrNotAnImage
		}
		return nil, nil, err
	}

	// validate dimensions
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, nil, ErrInvalidDimensions
	}

	return img, data, nil
}
