package download

import (
	"log"
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// batch is a playlist released in windows. A new window is scheduled only
// after every task of the previous one reached a terminal outcome.
type batch struct {
	id        string
	items     []model.Target
	cursor    int
	active    map[string]struct{}
	window    int
	delay     time.Duration
	outputDir string

	// releasePending is set while a deferred release sits in the schedule
	releasePending bool
}

// BatchStatus is a read-only snapshot of a batch
type BatchStatus struct {
	ID       string
	Total    int
	Released int
	Active   int
}

func (b *batch) remaining() int {
	return len(b.items) - b.cursor
}

func (b *batch) status() BatchStatus {
	return BatchStatus{ID: b.id, Total: len(b.items), Released: b.cursor, Active: len(b.active)}
}

// release is a deferred window release
type release struct {
	batchID string
	at      time.Time
}

// releaseWindow starts up to window tasks from the cursor. Items that fail
// to start are skipped; a window that ends up empty schedules the next one.
func (s *Service) releaseWindow(b *batch) {
	if _, ok := s.batches[b.id]; !ok {
		return
	}

	end := b.cursor + b.window
	if end > len(b.items) {
		end = len(b.items)
	}
	slice := b.items[b.cursor:end]
	b.cursor = end

	for _, target := range slice {
		id, err := s.CreateTask(target, b.outputDir, b.id)
		if err != nil {
			log.Printf("batch %s: skipping %s: %v", b.id, target.URL, err)
			continue
		}
		b.active[id] = struct{}{}
	}
	log.Printf("batch %s: released %d/%d", b.id, b.cursor, len(b.items))

	if len(b.active) > 0 {
		return
	}
	if b.remaining() > 0 {
		s.scheduleRelease(b)
		return
	}
	delete(s.batches, b.id)
}

// scheduleRelease arms one deferred release for b
func (s *Service) scheduleRelease(b *batch) {
	if b.releasePending {
		return
	}
	b.releasePending = true
	s.releases = append(s.releases, release{batchID: b.id, at: s.now().Add(b.delay)})
}

// fireReleases runs every release that is due
func (s *Service) fireReleases() {
	if len(s.releases) == 0 {
		return
	}

	now := s.now()
	var due []release
	pending := s.releases[:0]
	for _, r := range s.releases {
		if now.Before(r.at) {
			pending = append(pending, r)
		} else {
			due = append(due, r)
		}
	}
	s.releases = pending

	for _, r := range due {
		b, ok := s.batches[r.batchID]
		if !ok {
			continue
		}
		b.releasePending = false
		s.releaseWindow(b)
	}
}

// batchTaskFinished does the batch accounting for a task that reached a
// terminal outcome. Unknown batches and non-members are ignored.
func (s *Service) batchTaskFinished(batchID, taskID string) {
	if batchID == "" {
		return
	}
	b, ok := s.batches[batchID]
	if !ok {
		return
	}
	if _, member := b.active[taskID]; !member {
		return
	}
	delete(b.active, taskID)
	if len(b.active) > 0 {
		return
	}

	if b.remaining() > 0 {
		s.scheduleRelease(b)
		return
	}
	log.Printf("batch %s: complete", b.id)
	delete(s.batches, b.id)
}
