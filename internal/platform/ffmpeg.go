package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// FFmpegBinary is the merger executable name without extension
const FFmpegBinary = "ffmpeg"

// ffmpegName returns the platform specific executable name
func ffmpegName() string {
	if runtime.GOOS == OSWindows {
		return FFmpegBinary + ".exe"
	}
	return FFmpegBinary
}

// FindFFmpeg returns the path of a usable ffmpeg. A configured location may be
// the binary itself or its directory; an empty location searches PATH.
func FindFFmpeg(location string) (string, bool) {
	if location != "" {
		candidate := location
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			candidate = filepath.Join(location, ffmpegName())
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}

	path, err := exec.LookPath(ffmpegName())
	if err != nil {
		return "", false
	}
	return path, true
}
