package download

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/model"
)

// Status texts shown to the user
const (
	StatusPreparing        = "Preparing"
	StatusNoMerger         = "ffmpeg not found: downloading a single file without merging streams"
	StatusDownloadingVideo = "Downloading video:"
	StatusDownloadingAudio = "Downloading audio:"
	StatusDownloading      = "Downloading:"
	StatusPartDone         = "Part downloaded"
	StatusEngineError      = "Error"
	StatusMerging          = "Merging (ffmpeg)…"
	StatusPostProcessing   = "Post-processing: %s…"
	StatusPostProcessDone  = "Post-processing done"
	StatusDone             = "Done"
	StatusCancelled        = "Cancelled"
	StatusErrorPrefix      = "Error: "
	StatusPaused           = "Paused"
	StatusSoftCancelled    = "Cancelled (paused)"
	StatusResumed          = "Resumed"
	StatusDeleting         = "Deleting"
	StatusInfoUnavailable  = "Info unavailable: %v"
)

// Placeholder fills a metric the engine did not report
const Placeholder = "-"

// mergerName is the post-processor that joins split streams
const mergerName = "Merger"

// progressFields translates one engine progress callback into a view update
func progressFields(p engine.Progress, formats map[string]model.Format) model.Fields {
	switch p.Status {
	case engine.StatusFinished:
		return model.Fields{
			Status:   model.Text(StatusPartDone),
			Progress: model.Ratio(1),
			Speed:    model.Text(Placeholder),
			ETA:      model.Text(Placeholder),
			Percent:  model.Text("100.0%"),
		}
	case engine.StatusError:
		return model.Fields{Status: model.Text(StatusEngineError)}
	}

	kind := partKind(p, formats)
	f := model.Fields{
		Status:  model.Text(stageText(kind)),
		Quality: model.Text(qualityLabel(kind, p, formats)),
		Speed:   model.Text(formatSpeed(p.Speed)),
		ETA:     model.Text(formatETA(p.ETA)),
		Total:   model.Text(Placeholder),
		Percent: model.Text(Placeholder),
	}

	if p.TotalBytes > 0 {
		ratio := model.ClampRatio(float64(p.DownloadedBytes) / float64(p.TotalBytes))
		f.Progress = model.Ratio(ratio)
		f.Total = model.Text(humanize.IBytes(uint64(p.TotalBytes)))
		f.Percent = model.Text(fmt.Sprintf("%.1f%%", ratio*100))
	} else {
		f.Progress = model.Ratio(0)
		f.Indeterminate = true
	}
	return f
}

// postProcessFields translates a post-processor callback. The second result
// is false when the callback carries nothing worth showing.
func postProcessFields(pp engine.PostProcess) (model.Fields, bool) {
	switch pp.Status {
	case engine.PostProcessStarted, engine.PostProcessProcessing:
		status := fmt.Sprintf(StatusPostProcessing, pp.Name)
		if pp.Name == mergerName || pp.Name == "ffmpeg" {
			status = StatusMerging
		}
		return model.Fields{Status: model.Text(status)}, true
	case engine.PostProcessFinished:
		return model.Fields{Status: model.Text(StatusPostProcessDone)}, true
	default:
		return model.Fields{}, false
	}
}

// formatFor finds the map entry of the format in flight: the reported id
// first, then the ".f<id>." marker of either file name
func formatFor(p engine.Progress, formats map[string]model.Format) (model.Format, bool) {
	ids := []string{
		p.FormatID,
		model.FormatIDFromFilename(p.Filename),
		model.FormatIDFromFilename(p.TmpFilename),
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if f, ok := formats[id]; ok {
			return f, true
		}
	}
	return model.Format{}, false
}

// partKind decides which half of a split download is in flight: format map
// first, reported codecs second
func partKind(p engine.Progress, formats map[string]model.Format) model.FormatKind {
	if f, ok := formats[p.FormatID]; ok && (f.Kind == model.FormatVideo || f.Kind == model.FormatAudio) {
		return f.Kind
	}
	for _, name := range []string{p.Filename, p.TmpFilename} {
		if kind := model.PartKind(name, formats); kind != model.FormatUnknown {
			return kind
		}
	}

	hasVideo := model.HasCodec(p.VCodec)
	hasAudio := model.HasCodec(p.ACodec)
	switch {
	case hasVideo && !hasAudio:
		return model.FormatVideo
	case hasAudio && !hasVideo:
		return model.FormatAudio
	default:
		return model.FormatUnknown
	}
}

func stageText(kind model.FormatKind) string {
	switch kind {
	case model.FormatVideo:
		return StatusDownloadingVideo
	case model.FormatAudio:
		return StatusDownloadingAudio
	default:
		return StatusDownloading
	}
}

// qualityLabel prefers what the engine reported and fills gaps from the
// format map
func qualityLabel(kind model.FormatKind, p engine.Progress, formats map[string]model.Format) string {
	note, height, abr := p.FormatNote, p.Height, p.ABR
	if f, ok := formatFor(p, formats); ok {
		if note == "" {
			note = f.Note
		}
		if height == 0 {
			height = f.Height
		}
		if abr == 0 {
			abr = f.ABR
		}
	}

	if note != "" {
		return note
	}
	if kind != model.FormatAudio && height > 0 {
		return fmt.Sprintf("%dp", height)
	}
	if abr > 0 {
		return fmt.Sprintf("%dkbps", int(math.Round(abr)))
	}
	return Placeholder
}

func formatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 || math.IsInf(bytesPerSecond, 0) || math.IsNaN(bytesPerSecond) {
		return Placeholder
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

// formatETA renders m:ss, or h:mm:ss past the hour
func formatETA(d time.Duration) string {
	if d < 0 {
		return Placeholder
	}
	secs := int64(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
