package platform

import (
	"fmt"
	"strings"
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Default values
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	PlaylistSuffix       = " Playlist"
	MinPrefixLength      = 10
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// IsPlaylistURL reports whether url carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistURLParam)
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL. Supported:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(url string) (string, error) {
	if !IsPlaylistURL(url) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	parts := strings.SplitN(url, PlaylistURLParam, 2)
	playlistID := parts[1]
	if i := strings.Index(playlistID, PlaylistParamSeparator); i >= 0 {
		playlistID = playlistID[:i]
	}

	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}
	return playlistID, nil
}

// EntryURL picks the URL of a flat playlist entry: the page URL, then the
// entry URL, then a watch URL built from the id.
func EntryURL(webpageURL, url, id string) string {
	if webpageURL != "" {
		return webpageURL
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if id != "" {
		return fmt.Sprintf(YouTubeVideoURLTemplate, id)
	}
	return url
}

// PlaylistTitle derives a display title from entry titles when the extractor
// did not report one.
func PlaylistTitle(titles []string) string {
	if len(titles) == 0 {
		return DefaultPlaylistTitle
	}
	if len(titles) > 1 {
		prefix := strings.TrimSpace(findCommonPrefix(titles[0], titles[1]))
		if len(prefix) > MinPrefixLength {
			return prefix + PlaylistSuffix
		}
	}

	first := titles[0]
	if len(first) > MaxTitleLength {
		first = first[:MaxTitleLength] + TitleTruncateSuffix
	}
	return first + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
