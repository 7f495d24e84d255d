package download

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// scriptedDownloader runs a fixed script against the hooks
type scriptedDownloader struct {
	mu     sync.Mutex
	reqs   []engine.Request
	script func(ctx context.Context, hooks engine.Hooks) error
}

func (s *scriptedDownloader) Download(ctx context.Context, req engine.Request, hooks engine.Hooks) error {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.script == nil {
		return nil
	}
	return s.script(ctx, hooks)
}

type fieldLog struct {
	fields []model.Fields
}

func (r *fieldLog) emit(f model.Fields) {
	r.fields = append(r.fields, f)
}

func (r *fieldLog) last() model.Fields {
	return r.fields[len(r.fields)-1]
}

func (r *fieldLog) terminalCount() int {
	n := 0
	for _, f := range r.fields {
		if f.Outcome.IsTerminal() {
			n++
		}
	}
	return n
}

func (r *fieldLog) hasStatus(status string) bool {
	for _, f := range r.fields {
		if f.Status != nil && *f.Status == status {
			return true
		}
	}
	return false
}

func testConfig() config.DownloadConfig {
	cfg := config.DefaultDownloadConfig()
	cfg.CheckpointIntervalMS = 10
	cfg.JoinTimeoutMS = 1000
	return cfg
}

// testFFmpeg stands in for a resolved merger binary
const testFFmpeg = "/opt/ffmpeg/bin/ffmpeg"

func runJob(t *testing.T, dl engine.Downloader, cfg config.DownloadConfig, ffmpeg string, ctl *Control) *fieldLog {
	t.Helper()
	rec := &fieldLog{}
	w := NewWorker(dl, cfg, ffmpeg)
	w.Run(context.Background(), Job{
		TaskID:    "task-test",
		URL:       "https://www.youtube.com/watch?v=abc",
		OutputDir: t.TempDir(),
		Control:   ctl,
		Emit:      rec.emit,
	})
	return rec
}

func TestWorker_Success(t *testing.T) {
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		if err := hooks.OnProgress(engine.Progress{
			Status:          engine.StatusDownloading,
			Filename:        "/out/Clip [abc].f137.mp4.part",
			DownloadedBytes: 10,
			TotalBytes:      100,
			ETA:             -1,
		}); err != nil {
			return err
		}
		return hooks.OnProgress(engine.Progress{Status: engine.StatusFinished, Filename: "/out/Clip [abc].f137.mp4"})
	}}
	ctl := NewControl()

	rec := runJob(t, dl, testConfig(), testFFmpeg, ctl)

	final := rec.last()
	if final.Outcome != model.OutcomeDone {
		t.Fatalf("expected done outcome, got %s", final.Outcome)
	}
	if *final.Status != StatusDone || *final.Progress != 1 {
		t.Errorf("unexpected final fields: %q %v", *final.Status, *final.Progress)
	}
	if *final.Speed != "" || *final.ETA != "" || *final.Total != "" || *final.Percent != "" {
		t.Error("expected transient fields cleared on done")
	}
	if rec.terminalCount() != 1 {
		t.Errorf("expected exactly one terminal outcome, got %d", rec.terminalCount())
	}
	if !rec.hasStatus(StatusPreparing) {
		t.Error("expected Preparing status")
	}
	if rec.hasStatus(StatusNoMerger) {
		t.Error("no advisory expected with a merger")
	}

	files := ctl.Files()
	if len(files) != 2 {
		t.Errorf("expected 2 seen files, got %v", files)
	}

	req := dl.reqs[0]
	if req.Format != "bestvideo[height<=1080]+bestaudio/best[height<=1080]/best[height<=1080]" {
		t.Errorf("unexpected format %q", req.Format)
	}
	if filepath.Base(req.OutputTemplate) != "%(title).200s [%(id)s].%(ext)s" {
		t.Errorf("unexpected output template %q", req.OutputTemplate)
	}
	if req.Retries != config.DefaultRetries || req.FragmentRetries != config.DefaultFragmentRetries {
		t.Errorf("unexpected retries %d/%d", req.Retries, req.FragmentRetries)
	}
	if req.FFmpegLocation != testFFmpeg {
		t.Errorf("FFmpegLocation = %q, expected %q", req.FFmpegLocation, testFFmpeg)
	}
}

func TestWorker_NoMergerAdvisory(t *testing.T) {
	rec := runJob(t, &scriptedDownloader{}, testConfig(), "", NewControl())
	if !rec.hasStatus(StatusNoMerger) {
		t.Error("expected single-file advisory without a merger")
	}

	cfg := testConfig()
	cfg.Quality = config.QualityAudio
	rec = runJob(t, &scriptedDownloader{}, cfg, "", NewControl())
	if rec.hasStatus(StatusNoMerger) {
		t.Error("no advisory expected for audio-only")
	}
}

func TestWorker_ErrorOutcome(t *testing.T) {
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		return errors.New("HTTP Error 403: Forbidden")
	}}

	rec := runJob(t, dl, testConfig(), testFFmpeg, NewControl())

	final := rec.last()
	if final.Outcome != model.OutcomeError {
		t.Fatalf("expected error outcome, got %s", final.Outcome)
	}
	if *final.Status != "Error: HTTP Error 403: Forbidden" {
		t.Errorf("unexpected status %q", *final.Status)
	}
	if final.Error != "HTTP Error 403: Forbidden" {
		t.Errorf("unexpected error text %q", final.Error)
	}
}

func TestWorker_CancelAtCheckpoint(t *testing.T) {
	ctl := NewControl()
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		ctl.Cancel()
		return hooks.OnProgress(engine.Progress{Status: engine.StatusDownloading, Filename: "x.part", ETA: -1})
	}}

	rec := runJob(t, dl, testConfig(), testFFmpeg, ctl)

	final := rec.last()
	if final.Outcome != model.OutcomeCancelled || *final.Status != StatusCancelled {
		t.Errorf("expected cancelled outcome, got %s %q", final.Outcome, *final.Status)
	}
	if len(ctl.Files()) != 0 {
		t.Error("file must not be recorded after cancel was observed")
	}
}

func TestWorker_CancelFlagWinsOverSuccess(t *testing.T) {
	ctl := NewControl()
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		ctl.Cancel()
		return nil
	}}

	rec := runJob(t, dl, testConfig(), testFFmpeg, ctl)
	if rec.last().Outcome != model.OutcomeCancelled {
		t.Errorf("expected cancelled outcome, got %s", rec.last().Outcome)
	}
}

func TestWorker_CancelTextFromEngine(t *testing.T) {
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		return errors.New("Download cancelled by user")
	}}

	rec := runJob(t, dl, testConfig(), testFFmpeg, NewControl())
	if rec.last().Outcome != model.OutcomeCancelled {
		t.Errorf("expected cancelled outcome, got %s", rec.last().Outcome)
	}
}

func TestWorker_PanicBecomesError(t *testing.T) {
	dl := &scriptedDownloader{script: func(ctx context.Context, hooks engine.Hooks) error {
		panic("boom")
	}}

	rec := runJob(t, dl, testConfig(), testFFmpeg, NewControl())
	if rec.last().Outcome != model.OutcomeError {
		t.Errorf("expected error outcome, got %s", rec.last().Outcome)
	}
	if rec.terminalCount() != 1 {
		t.Errorf("expected one terminal outcome, got %d", rec.terminalCount())
	}
}

func TestIsCancellation(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{ErrCancelled, true},
		{context.Canceled, true},
		{errors.New("operation canceled"), true},
		{errors.New("network unreachable"), false},
	}

	for _, test := range tests {
		if got := isCancellation(test.err); got != test.expected {
			t.Errorf("isCancellation(%v) = %v, expected %v", test.err, got, test.expected)
		}
	}
}
