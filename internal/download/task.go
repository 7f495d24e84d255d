package download

import (
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// task is the control loop's record of one download. Only the goroutine
// that owns the Service touches it.
type task struct {
	view    model.DownloadTask
	target  model.Target
	control *Control

	// done is closed when the worker of the current generation exits
	done chan struct{}

	softCancelled    bool
	deleting         bool
	finishedReported bool
}

func newTask(id string, target model.Target, outDir, batchID string, now func() time.Time) *task {
	t := &task{
		target:  target,
		control: NewControl(),
		view: model.DownloadTask{
			ID:           id,
			URL:          target.URL,
			Title:        target.Title,
			ThumbnailURL: target.ThumbnailURL,
			OutputDir:    outDir,
			BatchID:      batchID,
			State:        model.StatePending,
			CreatedAt:    now(),
		},
	}
	t.control.SetFormats(target.Formats)
	return t
}

// workerAlive reports whether the current generation's worker still runs
func (t *task) workerAlive() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// holding reports whether the control loop currently owns the status text
func (t *task) holding() bool {
	return t.deleting || t.softCancelled || t.view.State == model.StatePaused
}

// applyInfo merges fetched metadata and hands the format map to the worker
func (t *task) applyInfo(info model.Target) {
	if info.Title != "" {
		t.target.Title = info.Title
	}
	if info.ThumbnailURL != "" {
		t.target.ThumbnailURL = info.ThumbnailURL
	}
	if info.ID != "" {
		t.target.ID = info.ID
	}
	if len(info.Formats) > 0 {
		t.target.Formats = info.Formats
		t.control.SetFormats(info.Formats)
	}
}

// nextGeneration prepares the task for a retry
func (t *task) nextGeneration() {
	t.view.Generation++
	t.control = NewControl()
	t.control.SetFormats(t.target.Formats)
	t.done = nil
	t.softCancelled = false
	t.deleting = false
	t.finishedReported = false
	t.view.ResetProgress()
	t.view.State = model.StatePending
	t.view.Status = ""
}
