package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"golang.org/x/time/rate"

	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// Probe pacing defaults
const (
	DefaultProbeRate  = 2 // requests per second
	DefaultProbeBurst = 2
	DefaultProbeTime  = 90 * time.Second
)

// codecAbsent is what the format classifier expects for a missing stream
const codecAbsent = "none"

var errNoInfo = errors.New("yt-dlp returned no metadata")

// dumpRequest is one metadata dump
type dumpRequest struct {
	URL  string
	Flat bool // list playlist entries without resolving each one
}

// runFunc performs a metadata dump and returns the extracted objects
type runFunc func(ctx context.Context, req dumpRequest) ([]*ytdlp.ExtractedInfo, error)

// JSONProber resolves URLs through yt-dlp's single JSON dump. YouTube
// playlist URLs are listed through the ytdlp library first.
type JSONProber struct {
	run       runFunc
	limiter   *rate.Limiter
	playlists *platform.YTDLPParserService
	timeout   time.Duration
}

// NewJSONProber creates a prober for binary (empty for yt-dlp on PATH),
// paced to perSecond requests
func NewJSONProber(binary string, perSecond float64) *JSONProber {
	if perSecond <= 0 {
		perSecond = DefaultProbeRate
	}
	return &JSONProber{
		run:       dumpRunner(binary),
		limiter:   rate.NewLimiter(rate.Limit(perSecond), DefaultProbeBurst),
		playlists: platform.NewYTDLPParserService(),
		timeout:   DefaultProbeTime,
	}
}

func dumpRunner(binary string) runFunc {
	return func(ctx context.Context, req dumpRequest) ([]*ytdlp.ExtractedInfo, error) {
		cmd := ytdlp.New().DumpSingleJSON().NoWarnings()
		if binary != "" {
			cmd = cmd.SetExecutable(binary)
		}
		if req.Flat {
			cmd = cmd.FlatPlaylist()
		} else {
			cmd = cmd.NoPlaylist().SkipDownload()
		}

		res, err := cmd.Run(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		return res.GetExtractedInfo()
	}
}

// Probe tells whether url is a playlist and expands it flat
func (p *JSONProber) Probe(ctx context.Context, url string) (*model.ProbeResult, error) {
	if p.playlists != nil && platform.IsPlaylistURL(url) {
		pl, err := p.playlists.ParsePlaylist(ctx, url)
		if err == nil && pl.Len() > 0 {
			return &model.ProbeResult{Kind: model.ProbePlaylist, Playlist: pl}, nil
		}
		log.Printf("playlist listing via library failed for %s, falling back to yt-dlp: %v", url, err)
	}

	info, err := p.dump(ctx, dumpRequest{URL: url, Flat: true})
	if err != nil {
		return nil, err
	}
	return probeResult(url, info), nil
}

// FetchInfo returns full metadata for a single item
func (p *JSONProber) FetchInfo(ctx context.Context, url string) (*model.Target, error) {
	info, err := p.dump(ctx, dumpRequest{URL: url})
	if err != nil {
		return nil, err
	}
	t := targetFromInfo(url, info)
	return &t, nil
}

func (p *JSONProber) dump(ctx context.Context, req dumpRequest) (*ytdlp.ExtractedInfo, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	infos, err := p.run(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info != nil {
			return info, nil
		}
	}
	return nil, errNoInfo
}

func isPlaylist(info *ytdlp.ExtractedInfo) bool {
	return info.Type == ytdlp.ExtractedTypePlaylist ||
		info.Type == ytdlp.ExtractedTypeMultiVideo ||
		info.Entries != nil
}

// probeResult maps a flat dump: a playlist when typed so or carrying entries
func probeResult(url string, info *ytdlp.ExtractedInfo) *model.ProbeResult {
	if !isPlaylist(info) {
		return &model.ProbeResult{Kind: model.ProbeVideo, Target: targetFromInfo(url, info)}
	}

	pl := model.NewPlaylist(url)
	pl.ID = info.ID
	titles := make([]string, 0, len(info.Entries))
	for _, e := range info.Entries {
		if e == nil {
			continue
		}
		entryURL := platform.EntryURL(deref(e.WebpageURL), deref(e.URL), e.ID)
		t := model.NewTarget(entryURL, deref(e.Title))
		t.ID = e.ID
		t.ThumbnailURL = thumbnailOf(e)
		pl.AddEntry(t)
		titles = append(titles, t.Title)
	}
	pl.Title = deref(info.Title)
	if pl.Title == "" {
		pl.Title = platform.PlaylistTitle(titles)
	}
	return &model.ProbeResult{Kind: model.ProbePlaylist, Playlist: pl}
}

func targetFromInfo(url string, info *ytdlp.ExtractedInfo) model.Target {
	target := deref(info.WebpageURL)
	if target == "" {
		target = url
	}
	t := model.NewTarget(target, deref(info.Title))
	t.ID = info.ID
	t.ThumbnailURL = thumbnailOf(info)
	for _, f := range info.Formats {
		if f == nil || deref(f.FormatID) == "" {
			continue
		}
		id := deref(f.FormatID)
		t.Formats[id] = model.Format{
			ID:     id,
			Kind:   model.ClassifyFormat(codecOf(f.VCodec), codecOf(f.ACodec)),
			Height: int(derefFloat(f.Height)),
			Width:  int(derefFloat(f.Width)),
			ABR:    derefFloat(f.ABR),
			Note:   deref(f.FormatNote),
		}
	}
	return t
}

// codecOf undoes go-ytdlp's cleanup, which turns "none" codecs into nil
func codecOf(codec *string) string {
	if codec == nil {
		return codecAbsent
	}
	return *codec
}

func thumbnailOf(info *ytdlp.ExtractedInfo) string {
	if s := deref(info.Thumbnail); s != "" {
		return s
	}
	for i := len(info.Thumbnails) - 1; i >= 0; i-- {
		if th := info.Thumbnails[i]; th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}
