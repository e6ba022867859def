package pipeline

import (
	"context"
	"fmt"
	"image"
)

// ProcessFile runs the full export for one source:
// load -> border -> optional resize -> encode -> save.
//
// Errors wrap one of ErrSourceRead, ErrEncode or ErrOutputWrite so callers can
// classify them with errors.Is.
func ProcessFile(ctx context.Context, srcPath, outDir string, opts ExportOptions) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	src, err := Load(srcPath, opts.AutoOrient)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}

	out := Export(src, opts)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	path, n, err := SaveEncoded(out, srcPath, outDir, opts)
	if err != nil {
		return Result{}, err
	}

	b := out.Bounds()
	return Result{
		Source: srcPath,
		Output: path,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  n,
	}, nil
}

// Export returns the final raster for src: the bordered canvas, resized to
// opts.ResizeLongest when resizing is enabled.
func Export(src image.Image, opts ExportOptions) image.Image {
	var out image.Image = Render(src, opts.BorderOptions)
	if opts.Resize {
		out = ResizeLongest(out, opts.ResizeLongest, opts.Filter)
	}
	return out
}
