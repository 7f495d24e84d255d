package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Quality is the process-wide format policy
type Quality string

const (
	QualityAudio Quality = "audio"
	Quality360   Quality = "360p"
	Quality480   Quality = "480p"
	Quality720   Quality = "720p"
	Quality1080  Quality = "1080p"
	QualityMax   Quality = "max"
)

// Defaults for DownloadConfig
const (
	DefaultQuality              = Quality1080
	DefaultRetries              = 10
	DefaultFragmentRetries      = 10
	DefaultTitleLimit           = 200
	DefaultPlaylistWindow       = 5
	DefaultPlaylistDelayMS      = 1200
	DefaultPollIntervalMS       = 80
	DefaultCheckpointIntervalMS = 150
	DefaultJoinTimeoutMS        = 2000
	DefaultProbeRate            = 2.0
	DefaultYTDLPBinary          = "yt-dlp"
)

var validate = validator.New()

// Qualities lists the selectable quality modes, lowest first
func Qualities() []Quality {
	return []Quality{QualityAudio, Quality360, Quality480, Quality720, Quality1080, QualityMax}
}

// ParseQuality validates a quality string
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Qualities() {
		if q == known {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown quality mode %q", s)
}

// Height returns the height cap of a capped mode, 0 for audio and max
func (q Quality) Height() int {
	switch q {
	case Quality360:
		return 360
	case Quality480:
		return 480
	case Quality720:
		return 720
	case Quality1080:
		return 1080
	default:
		return 0
	}
}

// DownloadConfig is passed explicitly to workers and the scheduler
type DownloadConfig struct {
	Quality              Quality `mapstructure:"quality" toml:"quality" validate:"required,oneof=audio 360p 480p 720p 1080p max"`
	CookiesFile          string  `mapstructure:"cookies_file" toml:"cookies_file" validate:"omitempty,file"`
	FFmpegLocation       string  `mapstructure:"ffmpeg_location" toml:"ffmpeg_location"`
	YTDLPBinary          string  `mapstructure:"ytdlp_binary" toml:"ytdlp_binary" validate:"required"`
	Retries              int     `mapstructure:"retries" toml:"retries" validate:"min=0,max=100"`
	FragmentRetries      int     `mapstructure:"fragment_retries" toml:"fragment_retries" validate:"min=0,max=100"`
	TitleLimit           int     `mapstructure:"title_limit" toml:"title_limit" validate:"min=16,max=240"`
	PlaylistWindow       int     `mapstructure:"playlist_window" toml:"playlist_window" validate:"min=1,max=50"`
	PlaylistDelayMS      int     `mapstructure:"playlist_delay_ms" toml:"playlist_delay_ms" validate:"min=0,max=600000"`
	PollIntervalMS       int     `mapstructure:"poll_interval_ms" toml:"poll_interval_ms" validate:"min=10,max=5000"`
	CheckpointIntervalMS int     `mapstructure:"checkpoint_interval_ms" toml:"checkpoint_interval_ms" validate:"min=10,max=5000"`
	JoinTimeoutMS        int     `mapstructure:"join_timeout_ms" toml:"join_timeout_ms" validate:"min=0,max=60000"`
	ProbeRate            float64 `mapstructure:"probe_rate" toml:"probe_rate" validate:"gt=0,max=50"`
}

// DefaultDownloadConfig returns the built-in configuration
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		Quality:              DefaultQuality,
		YTDLPBinary:          DefaultYTDLPBinary,
		Retries:              DefaultRetries,
		FragmentRetries:      DefaultFragmentRetries,
		TitleLimit:           DefaultTitleLimit,
		PlaylistWindow:       DefaultPlaylistWindow,
		PlaylistDelayMS:      DefaultPlaylistDelayMS,
		PollIntervalMS:       DefaultPollIntervalMS,
		CheckpointIntervalMS: DefaultCheckpointIntervalMS,
		JoinTimeoutMS:        DefaultJoinTimeoutMS,
		ProbeRate:            DefaultProbeRate,
	}
}

// Validate checks field bounds and returns a readable error
func (c DownloadConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid download config: %s", strings.Join(msgs, "; "))
}

// OutputTemplate is the yt-dlp output name: bounded title plus id
func (c DownloadConfig) OutputTemplate() string {
	limit := c.TitleLimit
	if limit <= 0 {
		limit = DefaultTitleLimit
	}
	return fmt.Sprintf("%%(title).%ds [%%(id)s].%%(ext)s", limit)
}

// PlaylistDelay returns the cooldown between playlist windows
func (c DownloadConfig) PlaylistDelay() time.Duration {
	return time.Duration(c.PlaylistDelayMS) * time.Millisecond
}

// PollInterval returns the control loop tick
func (c DownloadConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// CheckpointInterval returns the sleep step of a paused worker
func (c DownloadConfig) CheckpointInterval() time.Duration {
	return time.Duration(c.CheckpointIntervalMS) * time.Millisecond
}

// JoinTimeout returns how long delete waits for a worker to exit
func (c DownloadConfig) JoinTimeout() time.Duration {
	return time.Duration(c.JoinTimeoutMS) * time.Millisecond
}
