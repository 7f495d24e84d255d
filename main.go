package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/history"
	"github.com/ytget/yt-queue/internal/platform"
	"github.com/ytget/yt-queue/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-queue"
	AppName = "YT Queue"

	historyFlushTimeout = 2 * time.Second
)

func main() {
	log.Printf("%s v%s starting...", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		log.Printf("failed to ensure downloads dir: %v", err)
	}

	cfg := settings.DownloadConfig()
	ffmpeg := findFFmpeg(cfg.FFmpegLocation)

	dl := engine.NewYTDLP()
	dl.SetExecutable(cfg.YTDLPBinary)
	svc := download.NewService(dl, cfg, ffmpeg)
	prober := engine.NewJSONProber(cfg.YTDLPBinary, cfg.ProbeRate)
	svc.SetProber(prober)
	svc.SetInfoFetcher(prober)

	repo, err := history.New(config.DefaultHistoryPath())
	if err != nil {
		log.Printf("history disabled: %v", err)
	} else {
		defer repo.Close()
		svc.SetRecorder(repo)
	}

	root := ui.NewRootUI(myWindow, svc, settings)
	root.Start(cfg.PollInterval())

	myWindow.ShowAndRun()

	ctx, cancel := context.WithTimeout(context.Background(), historyFlushTimeout)
	defer cancel()
	svc.FlushHistory(ctx)
}

// findFFmpeg resolves the merger passed to yt-dlp, empty when none is usable
func findFFmpeg(location string) string {
	path, ok := platform.FindFFmpeg(location)
	if !ok {
		log.Printf("ffmpeg not found; downloads fall back to single-file formats")
		return ""
	}
	log.Printf("using ffmpeg at %s", path)
	return path
}
