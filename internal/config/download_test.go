package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultDownloadConfig_Valid(t *testing.T) {
	cfg := DefaultDownloadConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PlaylistDelay() != 1200*time.Millisecond {
		t.Errorf("PlaylistDelay() = %v", cfg.PlaylistDelay())
	}
	if cfg.PollInterval() != 80*time.Millisecond {
		t.Errorf("PollInterval() = %v", cfg.PollInterval())
	}
	if cfg.CheckpointInterval() != 150*time.Millisecond {
		t.Errorf("CheckpointInterval() = %v", cfg.CheckpointInterval())
	}
	if cfg.JoinTimeout() != 2*time.Second {
		t.Errorf("JoinTimeout() = %v", cfg.JoinTimeout())
	}
}

func TestDownloadConfig_Validate(t *testing.T) {
	cookies := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		mutate  func(*DownloadConfig)
		wantErr string
	}{
		{"unknown quality", func(c *DownloadConfig) { c.Quality = "4k" }, "Quality"},
		{"zero window", func(c *DownloadConfig) { c.PlaylistWindow = 0 }, "PlaylistWindow"},
		{"negative delay", func(c *DownloadConfig) { c.PlaylistDelayMS = -1 }, "PlaylistDelayMS"},
		{"missing cookies file", func(c *DownloadConfig) { c.CookiesFile = "/definitely/not/here.txt" }, "CookiesFile"},
		{"existing cookies file", func(c *DownloadConfig) { c.CookiesFile = cookies }, ""},
		{"zero probe rate", func(c *DownloadConfig) { c.ProbeRate = 0 }, "ProbeRate"},
		{"max quality", func(c *DownloadConfig) { c.Quality = QualityMax }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDownloadConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, expected mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in       string
		expected Quality
		wantErr  bool
	}{
		{"audio", QualityAudio, false},
		{" 720P ", Quality720, false},
		{"max", QualityMax, false},
		{"best", "", true},
	}
	for _, test := range tests {
		got, err := ParseQuality(test.in)
		if (err != nil) != test.wantErr || got != test.expected {
			t.Errorf("ParseQuality(%q) = %q, %v", test.in, got, err)
		}
	}
}

func TestQuality_Height(t *testing.T) {
	tests := []struct {
		q        Quality
		expected int
	}{
		{QualityAudio, 0},
		{Quality360, 360},
		{Quality1080, 1080},
		{QualityMax, 0},
	}
	for _, test := range tests {
		if got := test.q.Height(); got != test.expected {
			t.Errorf("%s.Height() = %d, expected %d", test.q, got, test.expected)
		}
	}
}

func TestOutputTemplate(t *testing.T) {
	cfg := DefaultDownloadConfig()
	if got := cfg.OutputTemplate(); got != "%(title).200s [%(id)s].%(ext)s" {
		t.Errorf("OutputTemplate() = %q", got)
	}
}
