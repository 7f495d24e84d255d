package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ytget/yt-queue/internal/config"
	"github.com/ytget/yt-queue/internal/engine"
	"github.com/ytget/yt-queue/internal/events"
	"github.com/ytget/yt-queue/internal/model"
	"github.com/ytget/yt-queue/internal/platform"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrWorkerAlive       = errors.New("previous worker is still running")
	ErrEmptyPlaylist     = errors.New("playlist is empty or its entries could not be read")
)

// anyGeneration marks events that apply to whichever generation is current
const anyGeneration = -1

// historyTimeout bounds one history write
const historyTimeout = 5 * time.Second

// Recorder persists terminal outcomes
type Recorder interface {
	Record(ctx context.Context, task model.DownloadTask, outcome model.Outcome) error
}

// Service owns all tasks and playlist batches. It is not safe for concurrent
// use: every method must be called from the goroutine that calls Poll.
// Workers and background probes only push to the event queue.
type Service struct {
	ctx    context.Context
	stop   context.CancelFunc
	cfg    config.DownloadConfig
	ffmpeg string
	worker *Worker
	queue  *events.Queue

	prober   engine.Prober
	info     engine.InfoFetcher
	recorder Recorder
	records  sync.WaitGroup
	cleanup  func(paths []string) model.CleanupReport
	now      func() time.Time
	lookup   func(location string) (string, bool)

	tasks    map[string]*task
	order    []string
	batches  map[string]*batch
	releases []release
}

// NewService creates a download service. ffmpeg is the resolved merger
// binary, empty when none was found.
func NewService(dl engine.Downloader, cfg config.DownloadConfig, ffmpeg string) *Service {
	ctx, stop := context.WithCancel(context.Background())
	return &Service{
		ctx:     ctx,
		stop:    stop,
		cfg:     cfg,
		ffmpeg:  ffmpeg,
		worker:  NewWorker(dl, cfg, ffmpeg),
		queue:   events.NewQueue(),
		cleanup: platform.DeleteTaskFiles,
		now:     time.Now,
		lookup:  platform.FindFFmpeg,
		tasks:   make(map[string]*task),
		batches: make(map[string]*batch),
	}
}

// SetProber sets the URL prober used by Submit
func (s *Service) SetProber(p engine.Prober) {
	s.prober = p
}

// SetInfoFetcher sets the metadata fetcher used for new tasks
func (s *Service) SetInfoFetcher(f engine.InfoFetcher) {
	s.info = f
}

// SetRecorder sets where terminal outcomes are recorded
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// SetConfig replaces the download configuration. A changed ffmpeg location
// is resolved again. Running workers keep the one they started with.
func (s *Service) SetConfig(cfg config.DownloadConfig) {
	if cfg.FFmpegLocation != s.cfg.FFmpegLocation {
		path, _ := s.lookup(cfg.FFmpegLocation)
		if path != s.ffmpeg {
			log.Printf("ffmpeg changed: %q -> %q", s.ffmpeg, path)
		}
		s.ffmpeg = path
	}
	s.cfg = cfg
	s.worker = NewWorker(s.worker.engine, cfg, s.ffmpeg)
}

// Config returns the current download configuration
func (s *Service) Config() config.DownloadConfig {
	return s.cfg
}

// MergerAvailable reports whether split streams can be merged
func (s *Service) MergerAvailable() bool {
	return s.ffmpeg != ""
}

// Queue returns the event queue, e.g. to wait for work in a headless loop
func (s *Service) Queue() *events.Queue {
	return s.queue
}

// Submit resolves url in the background. The result arrives through Poll as
// a created task or batch, or as a KindFailed event.
func (s *Service) Submit(url, outputDir string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("empty URL")
	}
	dir, err := platform.EnsureOutputDir(outputDir)
	if err != nil {
		return err
	}

	if s.prober == nil {
		target := model.NewTarget(url, "")
		s.queue.Push(events.Event{
			Kind:      events.KindProbed,
			OutputDir: dir,
			Probe:     &model.ProbeResult{Kind: model.ProbeVideo, Target: target},
		})
		return nil
	}

	go func() {
		res, err := s.prober.Probe(s.ctx, url)
		if err == nil && res.Kind == model.ProbePlaylist && (res.Playlist == nil || res.Playlist.Len() == 0) {
			err = ErrEmptyPlaylist
		}
		if err != nil {
			log.Printf("probe failed for %s: %v", url, err)
			s.queue.Push(events.Event{Kind: events.KindFailed, OutputDir: dir, Err: fmt.Errorf("%s: %w", url, err)})
			return
		}
		s.queue.Push(events.Event{Kind: events.KindProbed, OutputDir: dir, Probe: res})
	}()
	return nil
}

// CreateTask creates a task for target and starts its worker
func (s *Service) CreateTask(target model.Target, outputDir, batchID string) (string, error) {
	if strings.TrimSpace(target.URL) == "" {
		return "", fmt.Errorf("target has no URL")
	}
	dir, err := platform.EnsureOutputDir(outputDir)
	if err != nil {
		return "", err
	}

	id := generateTaskID()
	t := newTask(id, target, dir, batchID, s.now)
	s.tasks[id] = t
	s.order = append(s.order, id)
	log.Printf("task created [%s]: %s", id, target.URL)

	s.startWorker(t)
	if len(target.Formats) == 0 {
		s.fetchInfo(t)
	}
	return id, nil
}

// EnqueuePlaylist creates a batch and releases its first window
func (s *Service) EnqueuePlaylist(targets []model.Target, window int, delay time.Duration, outputDir string) (string, error) {
	if len(targets) == 0 {
		return "", ErrEmptyPlaylist
	}
	if window < 1 {
		window = s.cfg.PlaylistWindow
	}
	if window < 1 {
		window = config.DefaultPlaylistWindow
	}
	if delay < 0 {
		delay = 0
	}
	dir, err := platform.EnsureOutputDir(outputDir)
	if err != nil {
		return "", err
	}

	b := &batch{
		id:        generateBatchID(),
		items:     append([]model.Target(nil), targets...),
		active:    make(map[string]struct{}),
		window:    window,
		delay:     delay,
		outputDir: dir,
	}
	s.batches[b.id] = b
	log.Printf("batch %s: %d items, window %d, delay %v", b.id, len(b.items), window, delay)

	s.releaseWindow(b)
	return b.id, nil
}

// PauseToggle pauses a running task or unpauses a paused one
func (s *Service) PauseToggle(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if t.deleting || t.softCancelled || !t.view.State.CanPause() {
		return ErrInvalidTransition
	}

	if t.control.Paused() {
		t.control.Unpause()
		t.view.State = model.StateRunning
		t.view.Apply(model.Fields{Status: model.Text(StatusResumed)})
		log.Printf("task resumed [%s]", id)
	} else {
		t.control.Pause()
		t.view.State = model.StatePaused
		t.view.Apply(model.Fields{Status: model.Text(StatusPaused)})
		log.Printf("task paused [%s]", id)
	}
	return nil
}

// SoftCancel pauses the task and waits for a resume or delete decision
func (s *Service) SoftCancel(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if t.deleting || t.softCancelled || !t.view.State.CanPause() {
		return ErrInvalidTransition
	}

	t.softCancelled = true
	t.control.Pause()
	t.view.State = model.StateSoftCancelled
	t.view.Apply(model.Fields{Status: model.Text(StatusSoftCancelled)}.ClearTransient())
	log.Printf("task soft-cancelled [%s]", id)
	return nil
}

// Resume continues a soft-cancelled task
func (s *Service) Resume(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if !t.softCancelled || t.view.State != model.StateSoftCancelled {
		return ErrInvalidTransition
	}

	t.softCancelled = false
	t.control.Unpause()
	t.view.State = model.StateRunning
	t.view.Apply(model.Fields{Status: model.Text(StatusResumed)})
	log.Printf("task resumed [%s]", id)
	return nil
}

// Delete cancels the worker, removes every file it touched and finally
// drops the task. The result arrives through Poll as a KindRemoved event.
func (s *Service) Delete(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if t.deleting || !t.view.State.CanDelete() {
		return ErrInvalidTransition
	}

	t.deleting = true
	t.softCancelled = false
	t.control.Cancel()
	t.control.Unpause()
	t.view.State = model.StateDeleting
	t.view.Apply(model.Fields{Status: model.Text(StatusDeleting)}.ClearTransient())
	log.Printf("task deleting [%s]", id)

	done, ctl, gen := t.done, t.control, t.view.Generation
	timeout := s.cfg.JoinTimeout()
	go func() {
		if done != nil {
			select {
			case <-done:
			case <-time.After(timeout):
				log.Printf("delete [%s]: worker still running after %v, cleaning up anyway", id, timeout)
			}
		}
		report := s.cleanup(ctl.Files())
		s.queue.Push(events.Event{Kind: events.KindRemoved, TaskID: id, Generation: gen, Cleanup: &report})
	}()
	return nil
}

// Retry starts a new worker generation for a task in a terminal state
func (s *Service) Retry(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if !t.view.State.IsTerminal() {
		return ErrInvalidTransition
	}
	if t.workerAlive() {
		return ErrWorkerAlive
	}

	t.nextGeneration()
	// A retried task no longer counts against its playlist window
	t.view.BatchID = ""
	log.Printf("task retry [%s] generation %d", id, t.view.Generation)
	s.startWorker(t)
	return nil
}

// Close removes a task that has reached a terminal state
func (s *Service) Close(id string) error {
	t, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if t.deleting || !t.view.State.IsTerminal() {
		return ErrInvalidTransition
	}
	s.closeTask(t)
	return nil
}

// ClearPendingBatches drops every unreleased playlist item and returns how
// many were dropped. Tasks already created keep running.
func (s *Service) ClearPendingBatches() int {
	n := 0
	for _, b := range s.batches {
		n += b.remaining()
	}
	s.batches = make(map[string]*batch)
	s.releases = nil
	if n > 0 {
		log.Printf("cleared %d pending playlist items", n)
	}
	return n
}

// Poll fires due window releases and applies every queued event in order.
// It returns the events that were applied.
func (s *Service) Poll() []events.Event {
	s.fireReleases()

	pending := s.queue.Drain()
	if len(pending) == 0 {
		return nil
	}
	applied := make([]events.Event, 0, len(pending))
	for _, ev := range pending {
		if s.apply(&ev) {
			applied = append(applied, ev)
		}
	}
	return applied
}

// Shutdown cancels every worker and stops background work
func (s *Service) Shutdown() {
	for _, t := range s.tasks {
		t.control.Cancel()
		t.control.Unpause()
	}
	s.stop()
}

// FlushHistory waits until pending history writes finish or ctx is done
func (s *Service) FlushHistory(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.records.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// GetTask returns a copy of a task's view
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return model.DownloadTask{}, false
	}
	return t.view, true
}

// GetAllTasks returns copies of every task view in creation order
func (s *Service) GetAllTasks() []model.DownloadTask {
	tasks := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id].view)
	}
	return tasks
}

// Batches returns a snapshot of every live batch
func (s *Service) Batches() []BatchStatus {
	out := make([]BatchStatus, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b.status())
	}
	return out
}

// Idle reports whether nothing is running, scheduled or queued
func (s *Service) Idle() bool {
	if len(s.batches) > 0 || s.queue.Len() > 0 {
		return false
	}
	for _, t := range s.tasks {
		if !t.view.State.IsTerminal() || t.workerAlive() {
			return false
		}
	}
	return true
}

func (s *Service) apply(ev *events.Event) bool {
	switch ev.Kind {
	case events.KindUpdate:
		t, ok := s.tasks[ev.TaskID]
		if !ok {
			return false
		}
		if ev.Generation != anyGeneration && ev.Generation != t.view.Generation {
			return false
		}
		s.applyFields(t, ev.Fields)
		return true

	case events.KindRemoved:
		t, ok := s.tasks[ev.TaskID]
		if !ok || !t.deleting {
			return false
		}
		if ev.Cleanup != nil {
			log.Printf("task removed [%s]: %d files removed, %d errors", ev.TaskID, ev.Cleanup.Removed, len(ev.Cleanup.Errors))
		}
		s.closeTask(t)
		return true

	case events.KindProbed:
		if err := s.enqueueProbe(ev); err != nil {
			ev.Kind = events.KindFailed
			ev.Err = err
		}
		return true

	case events.KindFailed:
		return true
	}
	return false
}

func (s *Service) applyFields(t *task, f model.Fields) {
	if f.Outcome.IsTerminal() && t.finishedReported {
		return
	}
	if t.holding() || t.finishedReported {
		// late updates must not replace a control or final status
		if !f.Outcome.IsTerminal() {
			f = model.Fields{Info: f.Info}
		} else if t.deleting {
			f.Status = nil
		}
	}

	t.view.Apply(f)
	if f.Info != nil {
		t.applyInfo(*f.Info)
	}
	if !f.Outcome.IsTerminal() {
		return
	}

	if !t.deleting {
		t.view.State = f.Outcome.State()
		t.softCancelled = false
	}
	t.view.FinishedAt = s.now()
	s.finish(t, f.Outcome)
}

// finish runs once per worker generation for the first terminal outcome
func (s *Service) finish(t *task, outcome model.Outcome) {
	if t.finishedReported {
		return
	}
	t.finishedReported = true
	if outcome.IsTerminal() {
		s.record(t.view, outcome)
	}
	s.batchTaskFinished(t.view.BatchID, t.view.ID)
}

func (s *Service) record(view model.DownloadTask, outcome model.Outcome) {
	if s.recorder == nil {
		return
	}
	s.records.Add(1)
	go func() {
		defer s.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := s.recorder.Record(ctx, view, outcome); err != nil {
			log.Printf("history: failed to record [%s]: %v", view.ID, err)
		}
	}()
}

// closeTask removes the task and settles its batch accounting
func (s *Service) closeTask(t *task) {
	s.finish(t, model.OutcomeNone)
	delete(s.tasks, t.view.ID)
	for i, id := range s.order {
		if id == t.view.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	log.Printf("task closed [%s]", t.view.ID)
}

func (s *Service) enqueueProbe(ev *events.Event) error {
	res := ev.Probe
	if res == nil {
		return fmt.Errorf("empty probe result")
	}
	if res.Kind == model.ProbePlaylist {
		if res.Playlist == nil {
			return ErrEmptyPlaylist
		}
		_, err := s.EnqueuePlaylist(res.Playlist.Entries, s.cfg.PlaylistWindow, s.cfg.PlaylistDelay(), ev.OutputDir)
		return err
	}
	id, err := s.CreateTask(res.Target, ev.OutputDir, "")
	if err == nil {
		ev.TaskID = id
	}
	return err
}

// startWorker launches the worker goroutine for the task's current generation
func (s *Service) startWorker(t *task) {
	done := make(chan struct{})
	t.done = done
	t.view.State = model.StateRunning

	job := Job{
		TaskID:    t.view.ID,
		URL:       t.target.URL,
		OutputDir: t.view.OutputDir,
		Control:   t.control,
		Emit:      s.emitter(t.view.ID, t.view.Generation),
	}
	worker := s.worker
	go func() {
		defer close(done)
		worker.Run(s.ctx, job)
	}()
}

// fetchInfo loads the format map in the background
func (s *Service) fetchInfo(t *task) {
	if s.info == nil {
		return
	}
	id, url := t.view.ID, t.target.URL
	go func() {
		info, err := s.info.FetchInfo(s.ctx, url)
		if err != nil {
			log.Printf("info fetch failed [%s]: %v", id, err)
			s.queue.Push(events.Event{
				Kind:       events.KindUpdate,
				TaskID:     id,
				Generation: anyGeneration,
				Fields:     model.Fields{Status: model.Text(fmt.Sprintf(StatusInfoUnavailable, err))},
			})
			return
		}
		s.queue.Push(events.Event{
			Kind:       events.KindUpdate,
			TaskID:     id,
			Generation: anyGeneration,
			Fields:     model.Fields{Info: info},
		})
	}()
}

func (s *Service) emitter(id string, generation int) func(model.Fields) {
	return func(f model.Fields) {
		s.queue.Push(events.Event{Kind: events.KindUpdate, TaskID: id, Generation: generation, Fields: f})
	}
}
