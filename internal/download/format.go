package download

import (
	"fmt"

	"github.com/ytget/yt-queue/internal/config"
)

// Format expressions passed to yt-dlp
const (
	formatAudio        = "bestaudio/best"
	formatMaxMerged    = "bestvideo+bestaudio/best"
	formatMaxSingle    = "best"
	formatCappedMerged = "bestvideo[height<=%[1]d]+bestaudio/best[height<=%[1]d]/best[height<=%[1]d]"
	formatCappedSingle = "best[height<=%[1]d]/best"
)

// SelectFormat resolves the quality policy to a format expression. Without a
// merger only single-file formats are requested.
func SelectFormat(q config.Quality, merger bool) string {
	if q == config.QualityAudio {
		return formatAudio
	}

	height := q.Height()
	if height == 0 {
		if merger {
			return formatMaxMerged
		}
		return formatMaxSingle
	}

	if merger {
		return fmt.Sprintf(formatCappedMerged, height)
	}
	return fmt.Sprintf(formatCappedSingle, height)
}

// needsMergerAdvisory reports whether the degraded single-file mode changes
// what the user asked for
func needsMergerAdvisory(q config.Quality, merger bool) bool {
	return !merger && q != config.QualityAudio
}
