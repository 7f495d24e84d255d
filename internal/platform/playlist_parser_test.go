package platform

import (
	"strings"
	"testing"
)

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123&index=2", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsPlaylistURL(test.url); got != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expected    string
		expectError bool
	}{
		{"playlist page", "https://www.youtube.com/playlist?list=PL123", "PL123", false},
		{"watch with extra params", "https://www.youtube.com/watch?v=abc&list=PL456&start_radio=1", "PL456", false},
		{"no list param", "https://www.youtube.com/watch?v=abc", "", true},
		{"empty list param", "https://www.youtube.com/watch?v=abc&list=", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.url)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ExtractPlaylistID() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEntryURL(t *testing.T) {
	tests := []struct {
		name     string
		webpage  string
		url      string
		id       string
		expected string
	}{
		{"webpage wins", "https://www.youtube.com/watch?v=a", "https://x/y", "a", "https://www.youtube.com/watch?v=a"},
		{"absolute url", "", "https://vimeo.com/1", "1", "https://vimeo.com/1"},
		{"bare id as url", "", "abc", "abc", "https://www.youtube.com/watch?v=abc"},
		{"nothing", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryURL(tt.webpage, tt.url, tt.id); got != tt.expected {
				t.Errorf("EntryURL() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		expected string
	}{
		{"empty", nil, DefaultPlaylistTitle},
		{"common prefix", []string{"Go Concurrency Course - Part 1", "Go Concurrency Course - Part 2"}, "Go Concurrency Course - Part" + PlaylistSuffix},
		{"short prefix falls back to first", []string{"Alpha", "Beta"}, "Alpha" + PlaylistSuffix},
		{"single", []string{"Only"}, "Only" + PlaylistSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaylistTitle(tt.titles); got != tt.expected {
				t.Errorf("PlaylistTitle() = %q, expected %q", got, tt.expected)
			}
		})
	}

	long := strings.Repeat("x", MaxTitleLength+10)
	got := PlaylistTitle([]string{long})
	if !strings.HasSuffix(got, TitleTruncateSuffix+PlaylistSuffix) {
		t.Errorf("long title not truncated: %q", got)
	}
}

func TestFindCommonPrefix(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected string
	}{
		{"abcdef", "abcxyz", "abc"},
		{"abc", "abc", "abc"},
		{"abc", "", ""},
		{"xyz", "abc", ""},
	}
	for _, test := range tests {
		if got := findCommonPrefix(test.s1, test.s2); got != test.expected {
			t.Errorf("findCommonPrefix(%q, %q) = %q, expected %q", test.s1, test.s2, got, test.expected)
		}
	}
}
