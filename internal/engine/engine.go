// Package engine is the boundary with the external extraction engine (yt-dlp).
// Callers see blocking calls and synchronous hooks; nothing here knows about
// tasks or the UI.
package engine

import (
	"context"
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

// ProgressStatus is the engine state carried by a progress callback
type ProgressStatus string

const (
	StatusDownloading ProgressStatus = "downloading"
	StatusFinished    ProgressStatus = "finished"
	StatusError       ProgressStatus = "error"
)

// PostProcessStatus is the stage of a post-processor run
type PostProcessStatus string

const (
	PostProcessStarted    PostProcessStatus = "started"
	PostProcessProcessing PostProcessStatus = "processing"
	PostProcessFinished   PostProcessStatus = "finished"
)

// Request describes one blocking download
type Request struct {
	URL             string
	Format          string
	OutputTemplate  string
	Retries         int
	FragmentRetries int
	CookiesFile     string
	FFmpegLocation  string // merger binary or its directory, empty to let yt-dlp search PATH
}

// Progress is one progress callback from the engine
type Progress struct {
	Status          ProgressStatus
	Filename        string
	TmpFilename     string
	DownloadedBytes int64
	TotalBytes      int64         // 0 when unknown
	Speed           float64       // bytes per second, 0 when unknown
	ETA             time.Duration // negative when unknown
	FormatID        string
	VCodec          string // empty when absent or unknown
	ACodec          string
	FormatNote      string
	Height          int
	Width           int
	ABR             float64
	Title           string
}

// PostProcess is one post-processor callback from the engine
type PostProcess struct {
	Name   string
	Status PostProcessStatus
}

// Hooks receive engine callbacks synchronously on the downloading goroutine.
// A non-nil error aborts the download and is returned by Download.
type Hooks struct {
	OnProgress    func(Progress) error
	OnPostProcess func(PostProcess) error
}

// Downloader performs a blocking download
type Downloader interface {
	Download(ctx context.Context, req Request, hooks Hooks) error
}

// Prober resolves a submitted URL to one target or a playlist
type Prober interface {
	Probe(ctx context.Context, url string) (*model.ProbeResult, error)
}

// InfoFetcher fetches full metadata including the format map
type InfoFetcher interface {
	FetchInfo(ctx context.Context, url string) (*model.Target, error)
}
