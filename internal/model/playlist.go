package model

import (
	"time"
)

// ProbeKind tells whether a submitted URL names one item or a playlist
type ProbeKind string

const (
	ProbeVideo    ProbeKind = "video"
	ProbePlaylist ProbeKind = "playlist"
)

// Playlist is an expanded playlist: an ordered list of target descriptors
type Playlist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Entries   []Target  `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Entries:   make([]Target, 0),
		CreatedAt: time.Now(),
	}
}

// AddEntry appends an entry, skipping ones without a URL
func (p *Playlist) AddEntry(t Target) {
	if t.URL == "" {
		return
	}
	p.Entries = append(p.Entries, t)
}

// Len returns the number of entries
func (p *Playlist) Len() int {
	return len(p.Entries)
}

// ProbeResult is what a URL probe resolved to
type ProbeResult struct {
	Kind     ProbeKind
	Target   Target    // set for ProbeVideo
	Playlist *Playlist // set for ProbePlaylist
}
