package model

import (
	"strings"
	"time"
)

// DownloadTask is the presentation view of a single task. It is owned by the
// control loop and copied out to readers.
type DownloadTask struct {
	ID            string
	URL           string
	Title         string
	ThumbnailURL  string
	OutputDir     string
	BatchID       string // empty for standalone tasks
	State         TaskState
	Status        string  // last status text reported
	Progress      float64 // 0.0 to 1.0
	Indeterminate bool
	Speed         string
	ETA           string
	Total         string
	Quality       string
	Percent       string
	LastError     string
	Generation    int
	CreatedAt     time.Time
	FinishedAt    time.Time
}

// Apply merges a partial update into the view. Lifecycle state is not
// touched here; the control loop owns transitions.
func (dt *DownloadTask) Apply(f Fields) {
	if f.Status != nil {
		dt.Status = *f.Status
	}
	if f.Progress != nil {
		dt.Progress = ClampRatio(*f.Progress)
		dt.Indeterminate = f.Indeterminate
	}
	if f.Speed != nil {
		dt.Speed = *f.Speed
	}
	if f.ETA != nil {
		dt.ETA = *f.ETA
	}
	if f.Total != nil {
		dt.Total = *f.Total
	}
	if f.Quality != nil {
		dt.Quality = *f.Quality
	}
	if f.Percent != nil {
		dt.Percent = *f.Percent
	}
	if f.Info != nil {
		if f.Info.Title != "" {
			dt.Title = f.Info.Title
		}
		if f.Info.ThumbnailURL != "" {
			dt.ThumbnailURL = f.Info.ThumbnailURL
		}
	}
	if f.Outcome == OutcomeError {
		dt.LastError = f.Error
	}
}

// ResetProgress clears every progress field ahead of a new worker generation
func (dt *DownloadTask) ResetProgress() {
	dt.Progress = 0
	dt.Indeterminate = false
	dt.Speed = ""
	dt.ETA = ""
	dt.Total = ""
	dt.Quality = ""
	dt.Percent = ""
	dt.LastError = ""
	dt.FinishedAt = time.Time{}
}

// GetDisplayTitle returns the title when it is meaningful, the URL otherwise
func (dt *DownloadTask) GetDisplayTitle() string {
	title := strings.TrimSpace(dt.Title)
	if title != "" && title != "—" && !strings.HasPrefix(title, "http") {
		return title
	}
	return dt.URL
}
