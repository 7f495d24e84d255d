package download

import (
	"testing"

	"github.com/ytget/yt-queue/internal/config"
)

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		quality  config.Quality
		merger   bool
		expected string
	}{
		{config.QualityAudio, true, "bestaudio/best"},
		{config.QualityAudio, false, "bestaudio/best"},
		{config.QualityMax, true, "bestvideo+bestaudio/best"},
		{config.QualityMax, false, "best"},
		{config.Quality720, true, "bestvideo[height<=720]+bestaudio/best[height<=720]/best[height<=720]"},
		{config.Quality720, false, "best[height<=720]/best"},
		{config.Quality1080, false, "best[height<=1080]/best"},
		{config.Quality360, true, "bestvideo[height<=360]+bestaudio/best[height<=360]/best[height<=360]"},
	}

	for _, test := range tests {
		result := SelectFormat(test.quality, test.merger)
		if result != test.expected {
			t.Errorf("SelectFormat(%s, %v) = %q, expected %q", test.quality, test.merger, result, test.expected)
		}
	}
}

func TestNeedsMergerAdvisory(t *testing.T) {
	tests := []struct {
		quality  config.Quality
		merger   bool
		expected bool
	}{
		{config.QualityAudio, false, false},
		{config.Quality720, false, true},
		{config.QualityMax, false, true},
		{config.QualityMax, true, false},
	}

	for _, test := range tests {
		if got := needsMergerAdvisory(test.quality, test.merger); got != test.expected {
			t.Errorf("needsMergerAdvisory(%s, %v) = %v, expected %v", test.quality, test.merger, got, test.expected)
		}
	}
}
