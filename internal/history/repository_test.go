package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_RecordAndRecent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	done := model.DownloadTask{
		ID:         "task-1",
		URL:        "https://www.youtube.com/watch?v=one",
		Title:      "First",
		OutputDir:  "/tmp/out",
		FinishedAt: base,
	}
	failed := model.DownloadTask{
		ID:         "task-2",
		URL:        "https://www.youtube.com/watch?v=two",
		LastError:  "HTTP Error 403",
		FinishedAt: base.Add(time.Minute),
	}

	if err := repo.Record(ctx, done, model.OutcomeDone); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, failed, model.OutcomeError); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(entries))
	}
	if entries[0].TaskID != "task-2" || entries[0].Outcome != "error" || entries[0].Error != "HTTP Error 403" {
		t.Errorf("unexpected newest entry %+v", entries[0])
	}
	if entries[0].Title != failed.URL {
		t.Errorf("entry title = %q, want URL fallback", entries[0].Title)
	}
	if entries[1].Title != "First" || entries[1].OutputDir != "/tmp/out" {
		t.Errorf("unexpected oldest entry %+v", entries[1])
	}

	limited, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Recent(1) returned %d entries", len(limited))
	}
}

func TestRepository_OneEntryPerGeneration(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	task := model.DownloadTask{ID: "task-1", URL: "https://www.youtube.com/watch?v=x"}

	if err := repo.Record(ctx, task, model.OutcomeError); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, task, model.OutcomeError); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	task.Generation = 1
	if err := repo.Record(ctx, task, model.OutcomeDone); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	errs, err := repo.Count(ctx, model.OutcomeError)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if errs != 1 {
		t.Errorf("Count(error) = %d, want 1", errs)
	}
	dones, _ := repo.Count(ctx, model.OutcomeDone)
	if dones != 1 {
		t.Errorf("Count(done) = %d, want 1", dones)
	}
}
