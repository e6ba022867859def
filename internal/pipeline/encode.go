package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io"

	webp "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"golang.org/x/image/tiff"
)

// Default codec settings applied when a snapshot leaves them unset.
const (
	DefaultJPEGQuality = 80
	DefaultAVIFQuality = 80
	DefaultAVIFSpeed   = 4
)

// Encode writes img to w in opts.Format and returns the number of bytes
// written. PNG keeps the native buffer including alpha; every other codec is
// fed an opaque copy.
func Encode(w io.Writer, img image.Image, opts ExportOptions) (int64, error) {
	if img == nil {
		return 0, errors.New("nil image")
	}
	if w == nil {
		return 0, errors.New("nil writer")
	}

	// counting writer to capture encoded size
	c := &countingWriter{w: w}
	var err error
	switch opts.Format {
	case FormatPNG, "":
		err = imaging.Encode(c, img, imaging.PNG)
	case FormatJPEG:
		err = EncodeJPEG(c, opaque(img), opts.JPEGQuality)
	case FormatTIFF:
		err = tiff.Encode(c, opaque(img), &tiff.Options{Compression: tiff.Uncompressed})
	case FormatAVIF:
		err = EncodeAVIF(c, opaque(img), opts.AVIFQuality, opts.AVIFSpeed)
	case FormatWebP:
		err = EncodeWebPLossless(c, opaque(img))
	default:
		return 0, fmt.Errorf("unsupported output format %q", opts.Format)
	}
	return c.n, err
}

// EncodeJPEG encodes img at quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// EncodeWebPLossless encodes img as lossless WebP.
func EncodeWebPLossless(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}

// EncodeAVIF encodes img with given quality (1-100) and speed (1-10, where
// 10 is fastest).
func EncodeAVIF(w io.Writer, img image.Image, quality, speed int) error {
	if quality <= 0 {
		quality = DefaultAVIFQuality
	}
	if quality > 100 {
		quality = 100
	}
	if speed <= 0 {
		speed = DefaultAVIFSpeed
	}
	if speed > 10 {
		speed = 10
	}
	return avif.Encode(w, img, avif.Options{Quality: quality, QualityAlpha: quality, Speed: speed})
}

// opaque copies img with every alpha sample forced to 255. Colour channels are
// taken as-is rather than composited.
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	m, err := c.w.Write(p)
	c.n += int64(m)
	return m, err
}
