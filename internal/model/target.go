package model

import (
	"regexp"
	"strings"
)

// FormatKind classifies a single media format offered by the extractor
type FormatKind string

const (
	FormatVideo   FormatKind = "video"
	FormatAudio   FormatKind = "audio"
	FormatMuxed   FormatKind = "muxed"
	FormatUnknown FormatKind = "unknown"
)

// codecNone is the extractor marker for an absent stream
const codecNone = "none"

// formatIDPattern matches the format id yt-dlp embeds in split stream names,
// e.g. "Title [id].f137.mp4.part".
var formatIDPattern = regexp.MustCompile(`\.f([0-9A-Za-z_-]+)\.`)

// Format describes one downloadable format of a target
type Format struct {
	ID     string     `json:"id"`
	Kind   FormatKind `json:"kind"`
	Height int        `json:"height,omitempty"`
	Width  int        `json:"width,omitempty"`
	ABR    float64    `json:"abr,omitempty"`
	Note   string     `json:"note,omitempty"`
}

// Target describes what a task downloads
type Target struct {
	ID           string            `json:"id,omitempty"`
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	Formats      map[string]Format `json:"formats,omitempty"`
}

// NewTarget creates a target with an empty format map
func NewTarget(url, title string) Target {
	return Target{
		URL:     url,
		Title:   title,
		Formats: make(map[string]Format),
	}
}

// ClassifyFormat derives the format kind from the codec fields reported by the
// extractor. Empty codecs count as unknown, "none" as absent.
func ClassifyFormat(vcodec, acodec string) FormatKind {
	vcodec = strings.ToLower(strings.TrimSpace(vcodec))
	acodec = strings.ToLower(strings.TrimSpace(acodec))

	hasVideo := vcodec != "" && vcodec != codecNone
	hasAudio := acodec != "" && acodec != codecNone

	switch {
	case hasVideo && hasAudio:
		return FormatMuxed
	case hasVideo && acodec == codecNone:
		return FormatVideo
	case hasAudio && vcodec == codecNone:
		return FormatAudio
	default:
		return FormatUnknown
	}
}

// HasCodec reports whether an extractor codec value names a real stream
func HasCodec(codec string) bool {
	codec = strings.TrimSpace(codec)
	return codec != "" && codec != codecNone
}

// FormatIDFromFilename extracts the ".f<id>." marker from a split stream filename
func FormatIDFromFilename(filename string) string {
	m := formatIDPattern.FindStringSubmatch(filename)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// PartKind infers whether filename belongs to the video or audio half of a
// merged download. Returns FormatUnknown when the map has no answer.
func PartKind(filename string, formats map[string]Format) FormatKind {
	id := FormatIDFromFilename(filename)
	if id == "" {
		return FormatUnknown
	}
	f, ok := formats[id]
	if !ok {
		return FormatUnknown
	}
	switch f.Kind {
	case FormatVideo, FormatAudio:
		return f.Kind
	default:
		return FormatUnknown
	}
}
