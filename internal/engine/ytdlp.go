package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// DefaultProgressInterval is how often go-ytdlp reports progress
const DefaultProgressInterval = 250 * time.Millisecond

// mergerName is reported for post-processing stages, go-ytdlp does not name
// the processor
const mergerName = "ffmpeg"

// YTDLP drives the yt-dlp binary through go-ytdlp
type YTDLP struct {
	executable       string
	progressInterval time.Duration
}

// NewYTDLP creates a downloader with the default progress interval
func NewYTDLP() *YTDLP {
	return &YTDLP{progressInterval: DefaultProgressInterval}
}

// SetExecutable overrides the yt-dlp binary looked up on PATH
func (y *YTDLP) SetExecutable(path string) {
	y.executable = path
}

// SetProgressInterval changes how often progress callbacks fire
func (y *YTDLP) SetProgressInterval(d time.Duration) {
	if d > 0 {
		y.progressInterval = d
	}
}

// Download runs yt-dlp for req.URL and forwards callbacks to hooks. A hook
// error cancels the process and is returned unchanged.
func (y *YTDLP) Download(ctx context.Context, req Request, hooks Hooks) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dl := ytdlp.New().
		Format(req.Format).
		Output(req.OutputTemplate).
		Retries(strconv.Itoa(req.Retries)).
		FragmentRetries(strconv.Itoa(req.FragmentRetries)).
		NoPlaylist()
	if y.executable != "" {
		dl = dl.SetExecutable(y.executable)
	}
	if req.CookiesFile != "" {
		dl = dl.Cookies(req.CookiesFile)
	}
	if req.FFmpegLocation != "" {
		dl = dl.FFmpegLocation(req.FFmpegLocation)
	}

	r := newRelay(ctx, cancel, hooks)
	dl.ProgressFunc(y.progressInterval, r.handle)

	_, runErr := dl.Run(ctx, req.URL)
	return r.finish(runErr)
}

// relay forwards go-ytdlp callbacks to Hooks. The first hook error is kept
// and aborts the run through cancel; later callbacks are dropped.
type relay struct {
	ctx    context.Context
	cancel context.CancelFunc
	hooks  Hooks

	mu      sync.Mutex
	err     error
	merging bool
}

func newRelay(ctx context.Context, cancel context.CancelFunc, hooks Hooks) *relay {
	return &relay{ctx: ctx, cancel: cancel, hooks: hooks}
}

func (r *relay) handle(update ytdlp.ProgressUpdate) {
	if r.ctx.Err() != nil {
		return
	}

	var err error
	switch update.Status {
	case ytdlp.ProgressStatusStarting:
		return
	case ytdlp.ProgressStatusPostProcessing:
		r.mu.Lock()
		r.merging = true
		r.mu.Unlock()
		if r.hooks.OnPostProcess != nil {
			err = r.hooks.OnPostProcess(PostProcess{Name: mergerName, Status: PostProcessProcessing})
		}
	default:
		if r.hooks.OnProgress != nil {
			err = r.hooks.OnProgress(progressFromUpdate(&update))
		}
	}
	if err != nil {
		r.abort(err)
	}
}

func (r *relay) abort(err error) {
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
	r.cancel()
}

// finish maps the run result: a hook error wins, then cancellation, then the
// engine failure. A successful merge reports its finished stage.
func (r *relay) finish(runErr error) error {
	r.mu.Lock()
	herr, merged := r.err, r.merging
	r.mu.Unlock()

	if herr != nil {
		return herr
	}
	if runErr != nil {
		if r.ctx.Err() != nil {
			return fmt.Errorf("download cancelled: %w", r.ctx.Err())
		}
		return fmt.Errorf("yt-dlp failed: %w", runErr)
	}

	if merged && r.hooks.OnPostProcess != nil {
		return r.hooks.OnPostProcess(PostProcess{Name: mergerName, Status: PostProcessFinished})
	}
	return nil
}

// progressFromUpdate converts a go-ytdlp update to the engine-neutral form
func progressFromUpdate(update *ytdlp.ProgressUpdate) Progress {
	p := Progress{
		Filename:        update.Filename,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETA:             -1,
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished:
		p.Status = StatusFinished
	case ytdlp.ProgressStatusError:
		p.Status = StatusError
	default:
		p.Status = StatusDownloading
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			p.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 && !update.Started.IsZero() {
		p.ETA = eta
	}

	if info := update.Info; info != nil {
		p.Title = deref(info.Title)
		// the info dict of a split download describes the format in flight
		if f := info.ExtractedFormat; f != nil {
			p.FormatID = deref(f.FormatID)
			p.VCodec = deref(f.VCodec)
			p.ACodec = deref(f.ACodec)
			p.FormatNote = deref(f.FormatNote)
			p.Height = int(derefFloat(f.Height))
			p.Width = int(derefFloat(f.Width))
			p.ABR = derefFloat(f.ABR)
		}
	}

	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
