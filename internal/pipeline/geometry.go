package pipeline

// Layout is the canvas size and the top-left position of the source on it.
type Layout struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Geometry computes the bordered canvas for a width x height source.
//
// The border is always a percentage of the longest side. Symmetrical mode adds
// the same number of pixels to both axes; otherwise the canvas is a square of
// the grown longest side. Sizes are computed in float32 and truncated toward
// zero. percentage is not range checked here.
func Geometry(width, height int, percentage float32, symmetrical bool) Layout {
	longest := max(width, height)
	grown := int(float32(float32(longest) * (1 + percentage/100)))

	if symmetrical {
		delta := grown - longest
		w := width + delta
		h := height + delta
		return Layout{Width: w, Height: h, X: (w - width) / 2, Y: (h - height) / 2}
	}

	return Layout{Width: grown, Height: grown, X: (grown - width) / 2, Y: (grown - height) / 2}
}
