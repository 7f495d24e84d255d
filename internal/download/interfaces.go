package download

import (
	"time"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/events"
	"github.com/ytget/yt-queue/internal/model"
)

// Controller is what the UI needs from the download service
type Controller interface {
	Submit(url, outputDir string) error
	CreateTask(target model.Target, outputDir, batchID string) (string, error)
	EnqueuePlaylist(targets []model.Target, window int, delay time.Duration, outputDir string) (string, error)

	PauseToggle(id string) error
	SoftCancel(id string) error
	Resume(id string) error
	Delete(id string) error
	Retry(id string) error
	Close(id string) error
	ClearPendingBatches() int

	// Poll applies queued worker events; call it from the owning goroutine only
	Poll() []events.Event

	GetTask(id string) (model.DownloadTask, bool)
	GetAllTasks() []model.DownloadTask
	Batches() []BatchStatus

	SetConfig(cfg config.DownloadConfig)
	Config() config.DownloadConfig
	MergerAvailable() bool
	Shutdown()
}

var _ Controller = (*Service)(nil)
