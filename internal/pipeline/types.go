package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAnImage        = errors.New("file is not a decodable image")
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrInvalidDimensions = errors.New("image dimensions out of range")
)

// Error classes reported per image or per directory. Per-image classes never
// abort sibling work in a batch.
var (
	ErrSourceRead  = errors.New("source read failed")
	ErrDirectory   = errors.New("directory unreadable")
	ErrOutputWrite = errors.New("output write failed")
	ErrEncode      = errors.New("encode failed")
)

// Default maximum dimension (width or height) accepted for a source image.
const MaxDimension = 20000

// MaxSourceBytes caps how much of a source file is read into memory.
const MaxSourceBytes = 512 << 20

// Format is an output codec.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatAVIF Format = "avif"
	FormatWebP Format = "webp"
)

// Ext returns the file extension written for f, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatTIFF:
		return "tiff"
	case FormatAVIF:
		return "avif"
	case FormatWebP:
		return "webp"
	default:
		return "png"
	}
}

// ParseFormat accepts a format name or a common extension alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	case "avif":
		return FormatAVIF, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Filter selects the resampling kernel used by ResizeLongest.
type Filter string

const (
	FilterNearest    Filter = "nearest"
	FilterTriangle   Filter = "triangle"
	FilterCatmullRom Filter = "catmullrom"
	FilterLanczos3   Filter = "lanczos3"
)

// ParseFilter accepts a filter name, case-insensitive.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return FilterNearest, nil
	case "triangle", "linear":
		return FilterTriangle, nil
	case "catmullrom", "catmull-rom":
		return FilterCatmullRom, nil
	case "lanczos3", "lanczos":
		return FilterLanczos3, nil
	}
	return "", fmt.Errorf("unknown resize filter %q", s)
}

// BorderOptions controls the canvas geometry.
type BorderOptions struct {
	Symmetrical bool    `default:"false"`
	Percentage  float32 `default:"10" validate:"gte=0,lte=50"`
}

// ExportOptions is the full per-batch snapshot handed to every export task.
type ExportOptions struct {
	BorderOptions

	Resize        bool   `default:"false"`
	ResizeLongest int    `default:"800" validate:"gt=0"`
	Filter        Filter `default:"lanczos3" validate:"oneof=nearest triangle catmullrom lanczos3"`

	Format      Format `default:"png" validate:"oneof=png jpeg tiff avif webp"`
	JPEGQuality int    `default:"80" validate:"gte=1,lte=100"`
	AVIFQuality int    `default:"80" validate:"gte=1,lte=100"`
	AVIFSpeed   int    `default:"4" validate:"gte=1,lte=10"`

	// AutoOrient applies the EXIF orientation tag before the border is added.
	AutoOrient bool `default:"false"`
}

// Result describes one written output file.
type Result struct {
	Source string
	Output string
	Width  int
	Height int
	Bytes  int64
}
