package download

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// ErrCancelled is returned from a checkpoint once cancel is requested
var ErrCancelled = errors.New("download cancelled by user")

// Control is the state one worker generation shares with the control loop:
// the pause and cancel flags, the format map, and every file name the
// engine reported. Cancel is one-way.
type Control struct {
	paused    atomic.Bool
	cancelled atomic.Bool
	formats   atomic.Pointer[map[string]model.Format]

	mu    sync.Mutex
	files map[string]struct{}
}

// NewControl creates a control block with both flags clear
func NewControl() *Control {
	return &Control{files: make(map[string]struct{})}
}

// Pause sets the pause flag
func (c *Control) Pause() { c.paused.Store(true) }

// Unpause clears the pause flag
func (c *Control) Unpause() { c.paused.Store(false) }

// Paused reports the pause flag
func (c *Control) Paused() bool { return c.paused.Load() }

// Cancel sets the cancel flag for the rest of this generation
func (c *Control) Cancel() { c.cancelled.Store(true) }

// Cancelled reports the cancel flag
func (c *Control) Cancelled() bool { return c.cancelled.Load() }

// SetFormats publishes the format classification map to the worker
func (c *Control) SetFormats(formats map[string]model.Format) {
	if formats == nil {
		return
	}
	c.formats.Store(&formats)
}

// Formats returns the last published format map, nil if none
func (c *Control) Formats() map[string]model.Format {
	if p := c.formats.Load(); p != nil {
		return *p
	}
	return nil
}

// AddFiles records file names seen for this task, ignoring empty ones
func (c *Control) AddFiles(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		if n != "" {
			c.files[n] = struct{}{}
		}
	}
}

// Files returns the recorded file names in sorted order
func (c *Control) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.files))
	for n := range c.files {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Checkpoint blocks while paused, re-checking both flags every interval.
// It returns ErrCancelled as soon as cancel is observed.
func (c *Control) Checkpoint(ctx context.Context, interval time.Duration) error {
	for c.paused.Load() && !c.cancelled.Load() {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if c.cancelled.Load() {
		return ErrCancelled
	}
	return nil
}
