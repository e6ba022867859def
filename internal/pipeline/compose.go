package pipeline

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// BorderColor fills every canvas pixel not covered by the source.
var BorderColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Compose returns a new canvas of l's size with src copied at (l.X, l.Y).
// Pixels are overwritten, not blended, so source alpha is carried through.
func Compose(src image.Image, l Layout) *image.NRGBA {
	canvas := imaging.New(l.Width, l.Height, BorderColor)
	return imaging.Paste(canvas, src, image.Pt(l.X, l.Y))
}

// Render runs the geometry and compositing steps shared by preview and export.
func Render(src image.Image, opts BorderOptions) *image.NRGBA {
	b := src.Bounds()
	l := Geometry(b.Dx(), b.Dy(), opts.Percentage, opts.Symmetrical)
	return Compose(src, l)
}
