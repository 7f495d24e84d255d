package config

import (
	"fyne.io/fyne/v2"
	"github.com/ytget/yt-queue/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir     = "download_directory"
	KeyQuality         = "quality_mode"
	KeyCookiesFile     = "cookies_file"
	KeyFFmpegLocation  = "ffmpeg_location"
	KeyPlaylistWindow  = "playlist_window"
	KeyPlaylistDelayMS = "playlist_delay_ms"
	KeyLanguage        = "app_language"
)

// Default values
const (
	DefaultLanguage     = "system"
	FallbackDownloadDir = "/tmp/downloads"
	MaxPlaylistWindow   = 50
	MaxPlaylistDelayMS  = 600000
	MinPlaylistWindow   = 1
	MinPlaylistDelayMS  = 0
)

// Settings manages application configuration stored in Fyne preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetQuality returns the configured quality mode
func (s *Settings) GetQuality() Quality {
	q, err := ParseQuality(s.app.Preferences().String(KeyQuality))
	if err != nil {
		s.SetQuality(DefaultQuality)
		return DefaultQuality
	}
	return q
}

// SetQuality sets the quality mode, unknown values reset to the default
func (s *Settings) SetQuality(q Quality) {
	if _, err := ParseQuality(string(q)); err != nil {
		q = DefaultQuality
	}
	s.app.Preferences().SetString(KeyQuality, string(q))
}

// GetCookiesFile returns the cookies.txt path, empty when unset
func (s *Settings) GetCookiesFile() string {
	return s.app.Preferences().String(KeyCookiesFile)
}

// SetCookiesFile sets the cookies.txt path
func (s *Settings) SetCookiesFile(path string) {
	s.app.Preferences().SetString(KeyCookiesFile, path)
}

// GetFFmpegLocation returns the configured ffmpeg binary or directory
func (s *Settings) GetFFmpegLocation() string {
	return s.app.Preferences().String(KeyFFmpegLocation)
}

// SetFFmpegLocation sets the ffmpeg binary or directory
func (s *Settings) SetFFmpegLocation(path string) {
	s.app.Preferences().SetString(KeyFFmpegLocation, path)
}

// GetPlaylistWindow returns how many playlist items run at once
func (s *Settings) GetPlaylistWindow() int {
	return s.app.Preferences().IntWithFallback(KeyPlaylistWindow, DefaultPlaylistWindow)
}

// SetPlaylistWindow sets the playlist window size
func (s *Settings) SetPlaylistWindow(n int) {
	if n < MinPlaylistWindow {
		n = MinPlaylistWindow
	}
	if n > MaxPlaylistWindow {
		n = MaxPlaylistWindow
	}
	s.app.Preferences().SetInt(KeyPlaylistWindow, n)
}

// GetPlaylistDelayMS returns the cooldown between playlist windows
func (s *Settings) GetPlaylistDelayMS() int {
	return s.app.Preferences().IntWithFallback(KeyPlaylistDelayMS, DefaultPlaylistDelayMS)
}

// SetPlaylistDelayMS sets the cooldown between playlist windows
func (s *Settings) SetPlaylistDelayMS(ms int) {
	if ms < MinPlaylistDelayMS {
		ms = MinPlaylistDelayMS
	}
	if ms > MaxPlaylistDelayMS {
		ms = MaxPlaylistDelayMS
	}
	s.app.Preferences().SetInt(KeyPlaylistDelayMS, ms)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
	}
}

// DownloadConfig builds the worker configuration from stored preferences
func (s *Settings) DownloadConfig() DownloadConfig {
	cfg := DefaultDownloadConfig()
	cfg.Quality = s.GetQuality()
	cfg.CookiesFile = s.GetCookiesFile()
	cfg.FFmpegLocation = s.GetFFmpegLocation()
	cfg.PlaylistWindow = s.GetPlaylistWindow()
	cfg.PlaylistDelayMS = s.GetPlaylistDelayMS()
	return cfg
}
