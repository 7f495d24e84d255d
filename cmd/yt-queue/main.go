// Command yt-queue downloads videos and playlists without the desktop UI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/download"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/events"
	"github.com/ytget/yt-queue/internal/history"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

// stopGrace is how long workers get to observe cancel on shutdown
const stopGrace = 2 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", config.DefaultConfigPath(), "config file (TOML)")
	outputDir := pflag.StringP("output", "o", "", "download directory (overrides config)")
	quality := pflag.StringP("quality", "q", "", "quality: audio, 360p, 480p, 720p, 1080p, max")
	window := pflag.Int("window", 0, "playlist items downloaded in parallel")
	delayMS := pflag.Int("delay-ms", -1, "pause between playlist windows in milliseconds")
	initConfig := pflag.Bool("init", false, "write a default config file and exit")
	showHistory := pflag.Int("history", 0, "print the N most recent finished downloads and exit")
	pflag.Parse()

	if *initConfig {
		if err := config.WriteDefault(*configPath); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		log.Printf("wrote %s", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := applyFlags(cfg, *outputDir, *quality, *window, *delayMS); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	urls := pflag.Args()
	if len(urls) == 0 && *showHistory <= 0 {
		fmt.Fprintln(os.Stderr, "usage: yt-queue [flags] URL...")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	repo, err := history.New(cfg.HistoryPath)
	if err != nil {
		if *showHistory > 0 {
			log.Fatalf("failed to open history: %v", err)
		}
		log.Printf("warning: history disabled: %v", err)
	}

	code := 0
	if *showHistory > 0 {
		printHistory(repo, *showHistory)
	} else {
		code = run(cfg, repo, urls)
	}
	if repo != nil {
		repo.Close()
	}
	os.Exit(code)
}

func applyFlags(cfg *config.FileConfig, outputDir, quality string, window, delayMS int) error {
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if quality != "" {
		q, err := config.ParseQuality(quality)
		if err != nil {
			return err
		}
		cfg.Download.Quality = q
	}
	if window > 0 {
		cfg.Download.PlaylistWindow = window
	}
	if delayMS >= 0 {
		cfg.Download.PlaylistDelayMS = delayMS
	}
	return cfg.Download.Validate()
}

func run(cfg *config.FileConfig, repo *history.Repository, urls []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dl := cfg.Download
	ffmpeg, ok := platform.FindFFmpeg(dl.FFmpegLocation)
	if ok {
		log.Printf("using ffmpeg at %s", ffmpeg)
	} else {
		log.Printf("ffmpeg not found; downloads fall back to single-file formats")
	}

	engineDL := engine.NewYTDLP()
	engineDL.SetExecutable(dl.YTDLPBinary)
	svc := download.NewService(engineDL, dl, ffmpeg)
	prober := engine.NewJSONProber(dl.YTDLPBinary, dl.ProbeRate)
	svc.SetProber(prober)
	svc.SetInfoFetcher(prober)
	if repo != nil {
		svc.SetRecorder(repo)
	}

	pending := 0
	for _, u := range urls {
		if err := svc.Submit(u, cfg.OutputDir); err != nil {
			log.Printf("skipping %s: %v", u, err)
			continue
		}
		pending++
	}

	failures := 0
	loopCtx, done := context.WithCancel(ctx)
	defer done()

	download.Loop(loopCtx, dl.PollInterval(), nil, func() {
		for _, ev := range svc.Poll() {
			switch ev.Kind {
			case events.KindProbed, events.KindFailed:
				pending--
				if ev.Kind == events.KindFailed {
					failures++
					log.Printf("failed: %v", ev.Err)
				}
			case events.KindUpdate:
				failures += reportOutcome(svc, ev)
			}
		}
		if pending <= 0 && svc.Idle() {
			done()
		}
	})

	if ctx.Err() != nil {
		log.Printf("interrupted, cancelling downloads")
		svc.Shutdown()
		time.Sleep(stopGrace)
		return 130
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	svc.FlushHistory(flushCtx)
	if failures > 0 {
		return 1
	}
	return 0
}

// reportOutcome logs terminal outcomes and returns 1 for a failure
func reportOutcome(svc *download.Service, ev events.Event) int {
	if !ev.Fields.Outcome.IsTerminal() {
		return 0
	}
	task, ok := svc.GetTask(ev.TaskID)
	if !ok {
		return 0
	}
	switch ev.Fields.Outcome {
	case model.OutcomeDone:
		log.Printf("done: %s", task.GetDisplayTitle())
	case model.OutcomeCancelled:
		log.Printf("cancelled: %s", task.GetDisplayTitle())
	default:
		log.Printf("error: %s: %s", task.GetDisplayTitle(), task.LastError)
		return 1
	}
	return 0
}

func printHistory(repo *history.Repository, n int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := repo.Recent(ctx, n)
	if err != nil {
		log.Printf("failed to read history: %v", err)
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-9s  %s", e.FinishedAt.Local().Format("2006-01-02 15:04"), e.Outcome, e.Title)
		if e.Error != "" {
			line += "  (" + e.Error + ")"
		}
		fmt.Println(line)
	}
}
