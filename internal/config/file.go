package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// AppName names config and cache directories
const AppName = "yt-queue"

// EnvPrefix prefixes environment overrides, e.g. YTQ_DOWNLOAD_QUALITY
const EnvPrefix = "YTQ"

// FileConfig is the headless configuration loaded from TOML and environment
type FileConfig struct {
	OutputDir   string         `mapstructure:"output_dir" toml:"output_dir"`
	HistoryPath string         `mapstructure:"history_path" toml:"history_path"`
	Download    DownloadConfig `mapstructure:"download" toml:"download"`
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultHistoryPath returns the default history database path using XDG_CACHE_HOME
func DefaultHistoryPath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, AppName, "history.db")
}

// DefaultOutputDir returns the user's Downloads directory
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Downloads")
}

// DefaultFileConfig returns the built-in headless configuration
func DefaultFileConfig() FileConfig {
	return FileConfig{
		OutputDir:   DefaultOutputDir(),
		HistoryPath: DefaultHistoryPath(),
		Download:    DefaultDownloadConfig(),
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultFileConfig()
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("history_path", def.HistoryPath)

	d := def.Download
	v.SetDefault("download.quality", string(d.Quality))
	v.SetDefault("download.cookies_file", d.CookiesFile)
	v.SetDefault("download.ffmpeg_location", d.FFmpegLocation)
	v.SetDefault("download.ytdlp_binary", d.YTDLPBinary)
	v.SetDefault("download.retries", d.Retries)
	v.SetDefault("download.fragment_retries", d.FragmentRetries)
	v.SetDefault("download.title_limit", d.TitleLimit)
	v.SetDefault("download.playlist_window", d.PlaylistWindow)
	v.SetDefault("download.playlist_delay_ms", d.PlaylistDelayMS)
	v.SetDefault("download.poll_interval_ms", d.PollIntervalMS)
	v.SetDefault("download.checkpoint_interval_ms", d.CheckpointIntervalMS)
	v.SetDefault("download.join_timeout_ms", d.JoinTimeoutMS)
	v.SetDefault("download.probe_rate", d.ProbeRate)
}

// Load reads path (or the default location when empty), applies YTQ_*
// environment overrides and validates the result. A missing file is not an
// error; defaults apply.
func Load(path string) (*FileConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Download.Quality = Quality(strings.ToLower(string(cfg.Download.Quality)))

	if err := cfg.Download.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration to path. An existing file is
// left untouched.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "# %s configuration\n\n", AppName); err != nil {
		return err
	}
	return toml.NewEncoder(f).Encode(DefaultFileConfig())
}
