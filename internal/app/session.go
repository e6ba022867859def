// Package app holds the state an interactive front end displays.
//
// A Session is owned by one goroutine, the interactive loop. Background
// preview and export tasks never touch it; they send events to its queue and
// the loop applies them in Drain.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"imageborder/internal/config"
	"imageborder/internal/events"
	"imageborder/internal/metrics"
	"imageborder/internal/pipeline"
	"imageborder/internal/preview"
	"imageborder/internal/source"
	"imageborder/internal/worker"
)

// Status messages shown to the user.
const (
	StatusProcessing = "Processing images..."
	StatusComplete   = "Processing complete."
)

// ErrBusy is returned by StartProcessing while a batch is still running.
var ErrBusy = errors.New("a batch is already running")

// Session is the interactive-surface state. It is not safe for concurrent use.
type Session struct {
	log     *zap.Logger
	queue   *events.Queue
	preview *preview.Coordinator
	worker  *worker.Worker
	tally   *metrics.Tally

	ctx  context.Context
	opts pipeline.ExportOptions

	inputDir  string
	outputDir string
	sources   []string
	original  image.Image

	previewImg image.Image
	previewGen uint64

	status     string
	processing bool
	completed  int
	total      int
}

// NewSession wires a session from cfg. ctx bounds every background task the
// session starts.
func NewSession(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	queue := events.NewQueue(cfg.QueueSize)
	w, err := worker.NewWorker(cfg.Workers, queue, log)
	if err != nil {
		return nil, err
	}
	s := &Session{
		log:       log.Named("session"),
		queue:     queue,
		preview:   preview.New(queue, cfg.PreviewSize, cfg.PreviewSize, log),
		worker:    w,
		tally:     metrics.New(),
		ctx:       ctx,
		opts:      config.Clamp(cfg.Export),
		outputDir: cfg.OutputDir,
	}
	return s, nil
}

// Queue is where pickers and other collaborators send events.
func (s *Session) Queue() *events.Queue {
	return s.queue
}

// PickInput loads the sources in dir and starts a preview of the first one.
// An empty dir means the picker was cancelled and is ignored.
func (s *Session) PickInput(dir string) {
	if dir == "" {
		return
	}
	s.inputDir = dir
	s.sources = nil
	s.original = nil
	s.previewImg = nil
	s.preview.Invalidate()

	sources, err := source.List(dir)
	if err != nil {
		s.status = fmt.Sprintf("Error reading input directory: %v", err)
		s.log.Warn("input directory unreadable", zap.String("dir", dir), zap.Error(err))
		return
	}
	s.sources = sources
	s.status = fmt.Sprintf("Found %d images", len(sources))
	if len(sources) == 0 {
		return
	}

	img, err := pipeline.Load(sources[0], s.opts.AutoOrient)
	if err != nil {
		s.status = fmt.Sprintf("Error loading original image: %v", err)
		s.log.Warn("preview source unreadable", zap.String("src", sources[0]), zap.Error(err))
		return
	}
	s.original = img
	s.requestPreview()
}

// PickOutput sets the output directory. An empty dir is ignored.
func (s *Session) PickOutput(dir string) {
	if dir == "" {
		return
	}
	s.outputDir = dir
}

// SetOptions replaces the option snapshot after clamping it. A change to the
// border options triggers a new preview.
func (s *Session) SetOptions(opts pipeline.ExportOptions) {
	opts = config.Clamp(opts)
	borderChanged := opts.BorderOptions != s.opts.BorderOptions
	s.opts = opts
	if borderChanged {
		s.requestPreview()
	}
}

// Options returns the current snapshot.
func (s *Session) Options() pipeline.ExportOptions {
	return s.opts
}

func (s *Session) requestPreview() {
	if s.original == nil {
		return
	}
	s.preview.Request(s.ctx, s.original, s.opts.BorderOptions)
}

// StartProcessing exports every source with the current options snapshot.
// It returns immediately; progress arrives through Drain.
func (s *Session) StartProcessing() error {
	if s.processing {
		return ErrBusy
	}
	if len(s.sources) == 0 {
		s.status = "No images to process."
		return nil
	}
	if s.outputDir == "" {
		s.status = "No output directory selected."
		return nil
	}

	s.total = len(s.sources)
	s.completed = 0
	s.processing = true
	s.status = StatusProcessing
	s.tally.ResetBatch()

	paths := append([]string(nil), s.sources...)
	outDir := s.outputDir
	opts := s.opts
	s.worker.Export(s.ctx, paths, outDir, opts)
	return nil
}

// Drain applies every pending event and returns how many were handled. Call
// it once per frame or tick.
func (s *Session) Drain() int {
	n := 0
	for {
		ev, ok := s.queue.TryRecv()
		if !ok {
			return n
		}
		s.apply(ev)
		n++
	}
}

func (s *Session) apply(ev events.Event) {
	switch ev := ev.(type) {
	case events.PreviewReady:
		if !s.preview.IsCurrent(ev.Generation) {
			s.tally.Record(metrics.EventPreviewDropped)
			return
		}
		s.previewImg = ev.Image
		s.previewGen = ev.Generation
		s.tally.Record(metrics.EventPreviewReady)
	case events.DirectoryPicked:
		s.log.Debug("directory picked", zap.Stringer("role", ev.Role), zap.String("path", ev.Path))
		if ev.Role == events.RoleOutput {
			s.PickOutput(ev.Path)
		} else {
			s.PickInput(ev.Path)
		}
	case events.ItemComplete:
		if ev.Err != nil {
			s.tally.Record(metrics.EventItemFailed)
		} else {
			s.tally.Record(metrics.EventItemDone)
		}
		if !s.processing {
			return
		}
		s.completed++
		if s.completed >= s.total {
			s.processing = false
			s.status = StatusComplete
			s.tally.LogSummary(s.log)
		}
	}
}

// Preview returns the latest applied preview, nil if none yet.
func (s *Session) Preview() image.Image {
	return s.previewImg
}

// PreviewPending reports whether a requested preview has not been applied yet.
func (s *Session) PreviewPending() bool {
	return s.original != nil && s.previewGen != s.preview.Generation()
}

// Sources returns the discovered source paths.
func (s *Session) Sources() []string {
	return s.sources
}

// InputDir returns the selected input directory.
func (s *Session) InputDir() string {
	return s.inputDir
}

// OutputDir returns the selected output directory.
func (s *Session) OutputDir() string {
	return s.outputDir
}

// Status returns the human-readable status line.
func (s *Session) Status() string {
	return s.status
}

// Processing reports whether a batch is running.
func (s *Session) Processing() bool {
	return s.processing
}

// Progress returns batch progress as a percentage in [0, 100].
func (s *Session) Progress() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.completed) / float64(s.total) * 100
}

// Counts returns completed and total items of the current batch.
func (s *Session) Counts() (completed, total int) {
	return s.completed, s.total
}

// Failed returns how many items of the current batch failed so far.
func (s *Session) Failed() int {
	return s.tally.Count(metrics.EventItemFailed)
}

// Close cancels the running preview and waits for the export pool. Cancel the
// session context first if a batch may still be running undrained.
func (s *Session) Close() {
	s.preview.Stop()
	s.worker.Stop()
}
