// Package events carries task updates from download workers to the single
// goroutine that owns task state.
package events

import (
	"context"
	"sync"

	"github.com/ytget/yt-queue/internal/model"
)

// Kind identifies what an Event carries
type Kind int

const (
	// KindUpdate is a field update for one task generation
	KindUpdate Kind = iota
	// KindRemoved reports that delete cleanup finished and the task can go
	KindRemoved
	// KindProbed delivers a resolved submission to the control loop
	KindProbed
	// KindFailed reports a submission that produced no task
	KindFailed
)

// Event is one message on the queue
type Event struct {
	Kind       Kind
	TaskID     string
	Generation int
	Fields     model.Fields
	Cleanup    *model.CleanupReport
	Probe      *model.ProbeResult
	OutputDir  string
	Err        error
}

// Queue is an unbounded FIFO safe for many producers and one consumer.
// Push never blocks.
type Queue struct {
	mu      sync.Mutex
	items   []Event
	waiting chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{waiting: make(chan struct{}, 1)}
}

// Push appends an event
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.waiting <- struct{}{}:
	default:
	}
}

// Drain removes and returns everything queued so far, oldest first.
// It returns nil when the queue is empty.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Wait blocks until at least one event is queued or ctx is done, then drains
func (q *Queue) Wait(ctx context.Context) ([]Event, error) {
	for {
		if evs := q.Drain(); evs != nil {
			return evs, nil
		}
		select {
		case <-q.waiting:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len returns the number of queued events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
