package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// YTDLPParserService lists YouTube playlist items through the ytdlp library
// without spawning the yt-dlp binary.
type YTDLPParserService struct {
	timeout time.Duration
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist expands a playlist URL into ordered target descriptors
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !IsPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlistID, err := ExtractPlaylistID(url)
	if err != nil {
		return nil, fmt.Errorf("could not extract playlist ID from URL %s: %w", url, err)
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID

	titles := make([]string, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		target := model.NewTarget(fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID), it.Title)
		target.ID = it.VideoID
		playlist.AddEntry(target)
		titles = append(titles, it.Title)
	}
	playlist.Title = PlaylistTitle(titles)

	return playlist, nil
}
