package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"imageborder/internal/events"
	"imageborder/internal/pipeline"
	"imageborder/internal/storage"
)

// staleTempAge is how old a leftover temp file in the output dir must be
// before a new batch removes it.
const staleTempAge = 15 * time.Minute

type processFunc func(ctx context.Context, srcPath, outDir string, opts pipeline.ExportOptions) (pipeline.Result, error)

// Worker exports batches of images on a fixed-size goroutine pool. Each item
// is independent: a failing item is logged and reported but never stops its
// siblings.
type Worker struct {
	pool  *ants.Pool
	queue *events.Queue
	log   *zap.Logger

	process processFunc

	completed  atomic.Int64
	failed     atomic.Int64
	wg         sync.WaitGroup
	submitting sync.WaitGroup
}

// NewWorker creates a worker with size goroutines; size <= 0 uses GOMAXPROCS.
func NewWorker(size int, queue *events.Queue, log *zap.Logger) (*Worker, error) {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := &Worker{
		queue:   queue,
		log:     log.Named("worker"),
		process: pipeline.ProcessFile,
	}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(p any) {
		w.log.Error("worker panic escaped task", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	w.pool = pool
	return w, nil
}

// Export reserves the whole batch and returns without blocking; tasks are
// submitted from a background goroutine. Every path produces exactly one
// events.ItemComplete, including paths skipped once ctx is done. Use Wait to
// block until the batch has finished.
func (w *Worker) Export(ctx context.Context, paths []string, outDir string, opts pipeline.ExportOptions) {
	w.completed.Store(0)
	w.failed.Store(0)
	w.wg.Add(len(paths))
	w.submitting.Add(1)
	go w.submit(ctx, paths, outDir, opts)
}

func (w *Worker) submit(ctx context.Context, paths []string, outDir string, opts pipeline.ExportOptions) {
	defer w.submitting.Done()

	if err := storage.EnsureDir(outDir); err != nil {
		w.log.Warn("output directory not created", zap.String("dir", outDir), zap.Error(err))
	} else if n, err := storage.CleanOrphanedTempFiles(outDir, staleTempAge); err != nil {
		w.log.Warn("temp cleanup failed", zap.String("dir", outDir), zap.Error(err))
	} else if n > 0 {
		w.log.Info("removed stale temp files", zap.String("dir", outDir), zap.Int("count", n))
	}

	w.log.Info("batch started", zap.Int("total", len(paths)), zap.String("output", outDir), zap.String("format", string(opts.Format)))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			w.finish(ctx, path, pipeline.Result{}, err)
			w.wg.Done()
			continue
		}
		err := w.pool.Submit(func() {
			defer w.wg.Done()
			w.processItem(ctx, path, outDir, opts)
		})
		if err != nil {
			w.finish(ctx, path, pipeline.Result{}, fmt.Errorf("submit: %w", err))
			w.wg.Done()
		}
	}
}

func (w *Worker) processItem(ctx context.Context, path, outDir string, opts pipeline.ExportOptions) {
	var (
		res pipeline.Result
		err error
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		res, err = w.process(ctx, path, outDir, opts)
	}()
	w.finish(ctx, path, res, err)
}

// finish counts the item, logs its outcome and reports it to the queue.
func (w *Worker) finish(ctx context.Context, path string, res pipeline.Result, err error) {
	n := w.completed.Add(1)
	if err != nil {
		w.failed.Add(1)
		w.log.Error("image failed", zap.String("src", path), zap.Int64("completed", n), zap.Error(err))
	} else {
		w.log.Info("border added",
			zap.String("src", path),
			zap.String("out", res.Output),
			zap.Int("width", res.Width),
			zap.Int("height", res.Height),
			zap.Int64("bytes", res.Bytes),
			zap.Int64("completed", n),
		)
	}

	if w.queue == nil {
		return
	}
	ev := events.ItemComplete{Source: path, Result: res, Err: err}
	if sendErr := w.queue.Send(ctx, ev); sendErr != nil {
		w.log.Warn("completion not delivered", zap.String("src", path), zap.Error(sendErr))
	}
}

// Completed returns how many items of the current batch have finished.
func (w *Worker) Completed() int64 {
	return w.completed.Load()
}

// Failed returns how many items of the current batch failed.
func (w *Worker) Failed() int64 {
	return w.failed.Load()
}

// Wait blocks until every item of the batch has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Stop waits for the submit loop and every active job, then releases the
// pool. Cancel the batch context first to skip items not yet started.
func (w *Worker) Stop() {
	w.log.Info("waiting for active jobs to finish")
	w.submitting.Wait()
	w.wg.Wait()
	w.pool.Release()
	w.log.Info("stopped")
}
