package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"imageborder/internal/app"
	"imageborder/internal/config"
	"imageborder/internal/logging"
	"imageborder/internal/pipeline"
	"imageborder/internal/storage"
)

// tick is how often the loop drains the event queue.
const tick = 50 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	x := &cfg.Export
	var format, filter string
	var percentage float64
	flag.StringVar(&cfg.InputDir, "in", cfg.InputDir, "directory with the source images")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory the bordered images are written to")
	flag.Float64Var(&percentage, "border", float64(x.Percentage), "border size as a percentage (0-50) of the longest side")
	flag.BoolVar(&x.Symmetrical, "symmetrical", x.Symmetrical, "pad both axes equally instead of producing a square canvas")
	flag.BoolVar(&x.Resize, "resize", x.Resize, "resize the bordered image")
	flag.IntVar(&x.ResizeLongest, "longest", x.ResizeLongest, "longest side in pixels when -resize is set")
	flag.StringVar(&filter, "filter", string(x.Filter), "resize filter: nearest, triangle, catmullrom, lanczos3")
	flag.StringVar(&format, "format", string(x.Format), "output format: png, jpeg, tiff, avif, webp")
	flag.IntVar(&x.JPEGQuality, "jpeg-quality", x.JPEGQuality, "JPEG quality (1-100)")
	flag.IntVar(&x.AVIFQuality, "avif-quality", x.AVIFQuality, "AVIF quality (1-100)")
	flag.IntVar(&x.AVIFSpeed, "avif-speed", x.AVIFSpeed, "AVIF speed (1 slowest, best compression - 10 fastest)")
	flag.BoolVar(&x.AutoOrient, "auto-orient", x.AutoOrient, "apply EXIF orientation before adding the border")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "export goroutines (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this rotated file")
	flag.BoolVar(&cfg.Development, "dev", cfg.Development, "human-readable console logs")
	previewPath := flag.String("preview", "", "write the preview of the first image to this PNG path and skip export")
	flag.Parse()

	x.Percentage = float32(percentage)
	if x.Format, err = pipeline.ParseFormat(format); err != nil {
		return err
	}
	if x.Filter, err = pipeline.ParseFilter(filter); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if cfg.InputDir == "" {
		return fmt.Errorf("an input directory is required (-in or BORDER_INPUT_DIR)")
	}

	log, err := logging.New(cfg.LogLevel, cfg.Development, cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := app.NewSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer session.Close()

	session.PickInput(cfg.InputDir)
	log.Info(session.Status(), zap.String("input", session.InputDir()))
	if len(session.Sources()) == 0 {
		return nil
	}

	if *previewPath != "" {
		return writePreview(ctx, session, *previewPath, log)
	}

	if cfg.OutputDir == "" {
		return fmt.Errorf("an output directory is required (-out or BORDER_OUTPUT_DIR)")
	}
	if err := session.StartProcessing(); err != nil {
		return err
	}
	return waitForBatch(ctx, session, log)
}

// waitForBatch drains events until the batch completes, logging progress
// whenever it changes.
func waitForBatch(ctx context.Context, session *app.Session, log *zap.Logger) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := -1.0
	for session.Processing() {
		select {
		case <-ctx.Done():
			log.Warn("interrupted", zap.Float64("progress", session.Progress()))
			return ctx.Err()
		case <-ticker.C:
			session.Drain()
			if p := session.Progress(); p != last {
				done, total := session.Counts()
				log.Info("progress", zap.String("percent", fmt.Sprintf("%.1f%%", p)), zap.Int("done", done), zap.Int("total", total))
				last = p
			}
		}
	}

	log.Info(session.Status(), zap.Int("failed", session.Failed()))
	if n := session.Failed(); n > 0 {
		return fmt.Errorf("%d image(s) failed", n)
	}
	return nil
}

// writePreview waits for the preview of the first source and saves it as PNG.
func writePreview(ctx context.Context, session *app.Session, path string, log *zap.Logger) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for session.PreviewPending() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			session.Drain()
		}
	}

	img := session.Preview()
	if img == nil {
		return fmt.Errorf("no preview: %s", session.Status())
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := storage.AtomicWrite(path, &buf); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	b := img.Bounds()
	log.Info("preview written", zap.String("path", path), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return nil
}
