package pipeline

import (
	"image"
	"image/color"
	"testing"

	"imageborder/internal/testutil"
)

func TestCompose_BorderIsWhiteAndSourceCopied(t *testing.T) {
	src := testutil.GradientImage(40, 20)
	l := Geometry(40, 20, 25, true)
	out := Compose(src, l)

	if out.Bounds() != image.Rect(0, 0, l.Width, l.Height) {
		t.Fatalf("unexpected canvas bounds %v for layout %+v", out.Bounds(), l)
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			got := out.NRGBAAt(x, y)
			inside := x >= l.X && x < l.X+40 && y >= l.Y && y < l.Y+20
			if !inside {
				if got != BorderColor {
					t.Fatalf("border pixel (%d,%d) = %v, want white", x, y, got)
				}
				continue
			}
			if want := src.NRGBAAt(x-l.X, y-l.Y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCompose_AlphaWrittenThrough(t *testing.T) {
	src := testutil.SolidImage(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	out := Compose(src, Geometry(4, 4, 50, true))

	// 4 * 1.5 = 6, so the source sits at (1,1).
	if got := out.NRGBAAt(1, 1); got.A != 0 || got.R != 10 {
		t.Fatalf("expected transparent source pixel copied as-is, got %v", got)
	}
	if got := out.NRGBAAt(0, 0); got != BorderColor {
		t.Fatalf("expected opaque white border, got %v", got)
	}
}

func TestRender_DoesNotMutateSource(t *testing.T) {
	src := testutil.GradientImage(10, 10)
	before := append([]uint8(nil), src.Pix...)
	_ = Render(src, BorderOptions{Percentage: 20})
	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("source pixel buffer changed at %d", i)
		}
	}
}

func TestRender_OffsetSourceBounds(t *testing.T) {
	// sub-images keep their parent's coordinates
	parent := testutil.GradientImage(50, 50)
	sub := parent.SubImage(image.Rect(10, 10, 30, 20))
	out := Render(sub, BorderOptions{Percentage: 10, Symmetrical: true})
	if out.Bounds().Dx() != 22 || out.Bounds().Dy() != 12 {
		t.Fatalf("expected 22x12 canvas, got %v", out.Bounds())
	}
	if got, want := out.NRGBAAt(1, 1), parent.NRGBAAt(10, 10); got != want {
		t.Fatalf("expected sub-image origin at (1,1): got %v want %v", got, want)
	}
}
