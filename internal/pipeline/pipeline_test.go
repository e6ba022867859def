package pipeline_test

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"imageborder/internal/pipeline"
	"imageborder/internal/testutil"
)

func defaultOptions() pipeline.ExportOptions {
	return pipeline.ExportOptions{
		BorderOptions: pipeline.BorderOptions{Percentage: 10},
		ResizeLongest: 800,
		Filter:        pipeline.FilterLanczos3,
		Format:        pipeline.FormatPNG,
		JPEGQuality:   80,
		AVIFQuality:   80,
		AVIFSpeed:     10,
	}
}

func TestProcessFile_SymmetricBorderRoundTrip(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)
	gray := color.NRGBA{R: 40, G: 80, B: 120, A: 255}
	src := testutil.WritePNG(t, inDir, "photo.png", testutil.SolidImage(100, 100, gray))

	opts := defaultOptions()
	opts.Symmetrical = true

	res, err := pipeline.ProcessFile(context.Background(), src, outDir, opts)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if want := filepath.Join(outDir, "photo_bordered.png"); res.Output != want {
		t.Fatalf("output path = %s, want %s", res.Output, want)
	}
	if res.Width != 110 || res.Height != 110 || res.Bytes <= 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	img := testutil.DecodeFile(t, res.Output)
	if b := img.Bounds(); b.Dx() != 110 || b.Dy() != 110 {
		t.Fatalf("decoded bounds %v, want 110x110", b)
	}
	white := color.NRGBAModel.Convert(color.White)
	for _, p := range [][2]int{{0, 0}, {4, 50}, {109, 109}, {105, 50}, {50, 4}, {50, 105}} {
		if got := color.NRGBAModel.Convert(img.At(p[0], p[1])); got != white {
			t.Fatalf("border pixel %v = %v, want white", p, got)
		}
	}
	for y := 5; y < 105; y++ {
		for x := 5; x < 105; x++ {
			if got := color.NRGBAModel.Convert(img.At(x, y)); got != gray {
				t.Fatalf("center pixel (%d,%d) = %v, want %v", x, y, got, gray)
			}
		}
	}
}

func TestProcessFile_OutputNames(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)
	src := testutil.WritePNG(t, inDir, "holiday.shot.png", testutil.GradientImage(20, 10))

	cases := map[pipeline.Format]string{
		pipeline.FormatPNG:  "holiday.shot_bordered.png",
		pipeline.FormatJPEG: "holiday.shot_bordered.jpg",
		pipeline.FormatTIFF: "holiday.shot_bordered.tiff",
		pipeline.FormatAVIF: "holiday.shot_bordered.avif",
		pipeline.FormatWebP: "holiday.shot_bordered.webp",
	}
	for format, name := range cases {
		opts := defaultOptions()
		opts.Format = format
		res, err := pipeline.ProcessFile(context.Background(), src, outDir, opts)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if filepath.Base(res.Output) != name {
			t.Fatalf("%s: output %s, want %s", format, filepath.Base(res.Output), name)
		}
		if _, err := os.Stat(res.Output); err != nil {
			t.Fatalf("%s: output missing: %v", format, err)
		}
	}
}

func TestProcessFile_OverwritesExisting(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)
	src := testutil.WritePNG(t, inDir, "a.png", testutil.GradientImage(30, 20))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(outDir, "a_bordered.png")
	if err := os.WriteFile(existing, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := pipeline.ProcessFile(context.Background(), src, outDir, defaultOptions()); err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	img := testutil.DecodeFile(t, existing)
	if b := img.Bounds(); b.Dx() != 33 || b.Dy() != 33 {
		t.Fatalf("expected replaced 33x33 output, got %v", b)
	}
}

func TestProcessFile_Resize(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)
	src := testutil.WritePNG(t, inDir, "wide.png", testutil.GradientImage(400, 200))

	opts := defaultOptions()
	opts.Resize = true
	opts.ResizeLongest = 110
	opts.Filter = pipeline.FilterTriangle

	res, err := pipeline.ProcessFile(context.Background(), src, outDir, opts)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Width != 110 || res.Height != 110 {
		t.Fatalf("expected 110x110 after resize, got %dx%d", res.Width, res.Height)
	}
}

func TestProcessFile_ErrorClasses(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)

	corrupt := testutil.WriteCorrupt(t, inDir, "broken.png")
	_, err := pipeline.ProcessFile(context.Background(), corrupt, outDir, defaultOptions())
	if !errors.Is(err, pipeline.ErrSourceRead) || !errors.Is(err, pipeline.ErrNotAnImage) {
		t.Fatalf("expected source read / not an image, got %v", err)
	}

	_, err = pipeline.ProcessFile(context.Background(), filepath.Join(inDir, "missing.png"), outDir, defaultOptions())
	if !errors.Is(err, pipeline.ErrSourceRead) {
		t.Fatalf("expected source read error, got %v", err)
	}

	good := testutil.WritePNG(t, inDir, "good.png", testutil.GradientImage(10, 10))

	opts := defaultOptions()
	opts.Format = "bmp"
	_, err = pipeline.ProcessFile(context.Background(), good, outDir, opts)
	if !errors.Is(err, pipeline.ErrEncode) {
		t.Fatalf("expected encode error, got %v", err)
	}

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = pipeline.ProcessFile(context.Background(), good, filepath.Join(blocker, "out"), defaultOptions())
	if !errors.Is(err, pipeline.ErrOutputWrite) {
		t.Fatalf("expected output write error, got %v", err)
	}
}

func TestProcessFile_Cancelled(t *testing.T) {
	inDir, outDir := testutil.SetupTestDirs(t)
	src := testutil.WritePNG(t, inDir, "a.png", testutil.GradientImage(10, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pipeline.ProcessFile(ctx, src, outDir, defaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("cancelled export should not create output, stat err: %v", err)
	}
}
