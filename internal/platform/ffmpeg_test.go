package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFindFFmpeg_ConfiguredDirectory(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("executable bit layout differs on windows")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, FFmpegBinary)
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	got, ok := FindFFmpeg(dir)
	if !ok || got != bin {
		t.Errorf("FindFFmpeg(dir) = %q, %v; expected %q, true", got, ok, bin)
	}

	got, ok = FindFFmpeg(bin)
	if !ok || got != bin {
		t.Errorf("FindFFmpeg(bin) = %q, %v; expected %q, true", got, ok, bin)
	}
}

func TestFindFFmpeg_MissingFallsBackToPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, ok := FindFFmpeg(filepath.Join(t.TempDir(), "nope")); ok {
		t.Error("Expected ffmpeg to be unavailable")
	}
}
