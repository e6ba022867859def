package metrics

import (
	"go.uber.org/zap"
)

// EventType represents the type of tallied event.
type EventType string

const (
	EventItemDone       EventType = "item_done"
	EventItemFailed     EventType = "item_failed"
	EventPreviewReady   EventType = "preview_ready"
	EventPreviewDropped EventType = "preview_dropped"
)

// Tally counts events seen by the interactive loop. It is owned by a single
// goroutine and is not safe for concurrent use.
type Tally struct {
	counts map[EventType]int
}

// New creates an empty tally.
func New() *Tally {
	return &Tally{counts: make(map[EventType]int)}
}

// Record counts one event of type t.
func (t *Tally) Record(eventType EventType) {
	t.counts[eventType]++
}

// Count returns how many events of type t were recorded.
func (t *Tally) Count(eventType EventType) int {
	return t.counts[eventType]
}

// ResetBatch clears the per-batch item counters and keeps preview counters.
func (t *Tally) ResetBatch() {
	delete(t.counts, EventItemDone)
	delete(t.counts, EventItemFailed)
}

// LogSummary writes the batch counters at info level.
func (t *Tally) LogSummary(log *zap.Logger) {
	log.Info("batch summary",
		zap.Int("done", t.counts[EventItemDone]),
		zap.Int("failed", t.counts[EventItemFailed]),
		zap.Int("previews", t.counts[EventPreviewReady]),
		zap.Int("previews_dropped", t.counts[EventPreviewDropped]),
	)
}
