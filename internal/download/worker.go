package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// Job is one worker generation of a task
type Job struct {
	TaskID    string
	URL       string
	OutputDir string
	Control   *Control
	Emit      func(model.Fields)
}

// Worker drives one blocking engine download and reports through Job.Emit.
// It never touches task state directly.
type Worker struct {
	engine engine.Downloader
	cfg    config.DownloadConfig
	ffmpeg string
}

// NewWorker creates a worker for the given engine and configuration. ffmpeg
// is the merger binary handed to the engine; empty selects single-file
// formats.
func NewWorker(dl engine.Downloader, cfg config.DownloadConfig, ffmpeg string) *Worker {
	return &Worker{engine: dl, cfg: cfg, ffmpeg: ffmpeg}
}

func (w *Worker) merger() bool {
	return w.ffmpeg != ""
}

// Run performs the download and always emits exactly one terminal outcome
func (w *Worker) Run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("download panic [%s]: %v", job.TaskID, r)
			job.Emit(errorFields(fmt.Errorf("internal error: %v", r)))
		}
	}()

	log.Printf("download start [%s]: %s", job.TaskID, job.URL)

	if needsMergerAdvisory(w.cfg.Quality, w.merger()) {
		log.Printf("download [%s]: %s", job.TaskID, StatusNoMerger)
		job.Emit(model.Fields{Status: model.Text(StatusNoMerger)})
	}
	job.Emit(model.Fields{Status: model.Text(StatusPreparing), Progress: model.Ratio(0)})

	ctl := job.Control
	interval := w.cfg.CheckpointInterval()
	hooks := engine.Hooks{
		OnProgress: func(p engine.Progress) error {
			if err := ctl.Checkpoint(ctx, interval); err != nil {
				return err
			}
			ctl.AddFiles(p.Filename, p.TmpFilename)
			job.Emit(progressFields(p, ctl.Formats()))
			return nil
		},
		OnPostProcess: func(pp engine.PostProcess) error {
			if err := ctl.Checkpoint(ctx, interval); err != nil {
				return err
			}
			if f, ok := postProcessFields(pp); ok {
				job.Emit(f)
			}
			return nil
		},
	}

	req := engine.Request{
		URL:             job.URL,
		Format:          SelectFormat(w.cfg.Quality, w.merger()),
		OutputTemplate:  filepath.Join(job.OutputDir, w.cfg.OutputTemplate()),
		Retries:         w.cfg.Retries,
		FragmentRetries: w.cfg.FragmentRetries,
		CookiesFile:     w.cfg.CookiesFile,
		FFmpegLocation:  w.ffmpeg,
	}

	err := w.engine.Download(ctx, req, hooks)
	final := resultFields(err, ctl.Cancelled())

	switch final.Outcome {
	case model.OutcomeDone:
		log.Printf("download done [%s]", job.TaskID)
	case model.OutcomeCancelled:
		log.Printf("download cancelled [%s]", job.TaskID)
	default:
		log.Printf("download failed [%s]: %v", job.TaskID, err)
	}
	job.Emit(final)
}

// resultFields maps the engine result to the terminal update. A set cancel
// flag wins over success.
func resultFields(err error, cancelled bool) model.Fields {
	switch {
	case err == nil && !cancelled:
		return model.Fields{
			Status:   model.Text(StatusDone),
			Progress: model.Ratio(1),
			Outcome:  model.OutcomeDone,
		}.ClearTransient()
	case cancelled || isCancellation(err):
		return model.Fields{
			Status:   model.Text(StatusCancelled),
			Progress: model.Ratio(0),
			Outcome:  model.OutcomeCancelled,
		}.ClearTransient()
	default:
		return errorFields(err)
	}
}

func errorFields(err error) model.Fields {
	return model.Fields{
		Status:  model.Text(StatusErrorPrefix + err.Error()),
		Outcome: model.OutcomeError,
		Error:   err.Error(),
	}.ClearTransient()
}

// isCancellation recognises our own cancel error, context cancellation, and
// engine errors that only carry the text
func isCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancelled") || strings.Contains(msg, "canceled")
}
