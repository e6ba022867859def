// Package preview renders the on-screen preview off the interactive thread.
//
// Only the most recent request is ever applied: starting a new request
// cancels the previous one, and every result carries a generation number.
// A superseded task usually exits without sending, but one that loses the
// race may still deliver; the consumer drops it by checking IsCurrent.
package preview

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"

	"imageborder/internal/events"
	"imageborder/internal/pipeline"
)

type renderFunc func(src image.Image, opts pipeline.BorderOptions, boxW, boxH int) image.Image

// Coordinator owns the single in-flight preview task.
type Coordinator struct {
	queue *events.Queue
	log   *zap.Logger
	boxW  int
	boxH  int

	render renderFunc

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a coordinator delivering results to queue. A zero box falls
// back to PreviewWidth x PreviewHeight.
func New(queue *events.Queue, boxW, boxH int, log *zap.Logger) *Coordinator {
	if boxW <= 0 {
		boxW = pipeline.PreviewWidth
	}
	if boxH <= 0 {
		boxH = pipeline.PreviewHeight
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		queue:  queue,
		log:    log.Named("preview"),
		boxW:   boxW,
		boxH:   boxH,
		render: pipeline.RenderPreview,
	}
}

// Request supersedes any running preview and starts rendering src with opts.
// It returns the generation assigned to this request.
func (c *Coordinator) Request(ctx context.Context, src image.Image, opts pipeline.BorderOptions) uint64 {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	taskCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		img := c.render(src, opts, c.boxW, c.boxH)
		if taskCtx.Err() != nil || !c.IsCurrent(gen) {
			c.log.Debug("discarding superseded preview", zap.Uint64("generation", gen))
			return
		}
		// A request arriving after this point can still race the send; its
		// consumer drops the result through IsCurrent.
		ev := events.PreviewReady{Generation: gen, Image: img, Options: opts}
		if err := c.queue.Send(taskCtx, ev); err != nil {
			c.log.Debug("preview not delivered", zap.Uint64("generation", gen), zap.Error(err))
		}
	}()

	return gen
}

// Invalidate cancels the in-flight request and makes every result delivered
// so far stale, without starting a new render.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
}

// IsCurrent reports whether gen is the latest request.
func (c *Coordinator) IsCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// Generation returns the latest request's generation, 0 if none was made.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Stop cancels the in-flight request and waits for its goroutine to exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}
