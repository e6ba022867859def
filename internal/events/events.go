// Package events defines the messages background tasks send to the
// interactive loop. The set is closed: only types in this package implement
// Event.
package events

import (
	"context"
	"image"

	"imageborder/internal/pipeline"
)

// Event is one completion message.
type Event interface {
	event()
}

// Role tells which directory a picker result is for.
type Role int

const (
	RoleInput Role = iota
	RoleOutput
)

func (r Role) String() string {
	if r == RoleOutput {
		return "output"
	}
	return "input"
}

// PreviewReady carries a rendered preview. Generation identifies the request
// that produced it so stale results can be dropped.
type PreviewReady struct {
	Generation uint64
	Image      image.Image
	Options    pipeline.BorderOptions
}

// DirectoryPicked is sent by a picker once the user chose a directory.
type DirectoryPicked struct {
	Role Role
	Path string
}

// ItemComplete is sent once per batch item, success or failure.
type ItemComplete struct {
	Source string
	Result pipeline.Result
	Err    error
}

func (PreviewReady) event()    {}
func (DirectoryPicked) event() {}
func (ItemComplete) event()    {}

// DefaultQueueSize is the buffer used by NewQueue when size <= 0.
const DefaultQueueSize = 256

// Queue is a many-producer, single-consumer event channel.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Send enqueues ev, blocking while the queue is full until ctx is done.
func (q *Queue) Send(ctx context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryRecv returns the next pending event without blocking.
func (q *Queue) TryRecv() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return nil, false
	}
}

// C exposes the receive side for consumers that want to select on it.
func (q *Queue) C() <-chan Event {
	return q.ch
}
