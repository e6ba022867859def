package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Preview bounding box used when none is configured.
const (
	PreviewWidth  = 500
	PreviewHeight = 500
)

// ResizeLongest scales img so its longest side equals longest, preserving
// aspect ratio. It scales up as well as down.
func ResizeLongest(img image.Image, longest int, f Filter) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 || longest <= 0 {
		return img
	}

	nw, nh := longestDimensions(w, h, longest)
	return imaging.Resize(img, nw, nh, resampleFilter(f))
}

// longestDimensions fixes the larger side to longest and derives the other
// from the shorter/longer ratio, truncated toward zero.
func longestDimensions(w, h, longest int) (int, int) {
	if w > h {
		ratio := float32(h) / float32(w)
		return longest, max(1, int(float32(longest)*ratio))
	}
	ratio := float32(w) / float32(h)
	return max(1, int(float32(longest)*ratio)), longest
}

func resampleFilter(f Filter) imaging.ResampleFilter {
	switch f {
	case FilterNearest:
		return imaging.NearestNeighbor
	case FilterTriangle:
		return imaging.Linear
	case FilterCatmullRom:
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}

// FitWithin downscales img by a uniform factor so it fits in boxW x boxH.
// Images that already fit are returned unchanged.
func FitWithin(img image.Image, boxW, boxH int) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return img
	}
	if w <= boxW && h <= boxH {
		return img
	}

	nw, nh := fitDimensions(w, h, boxW, boxH)
	return resize.Resize(uint(nw), uint(nh), img, resize.Lanczos3)
}

func fitDimensions(w, h, boxW, boxH int) (int, int) {
	scale := min(float64(boxW)/float64(w), float64(boxH)/float64(h))
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// RenderPreview is Render followed by FitWithin.
func RenderPreview(src image.Image, opts BorderOptions, boxW, boxH int) image.Image {
	return FitWithin(Render(src, opts), boxW, boxH)
}
