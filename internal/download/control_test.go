package download

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ytget/yt-queue/internal/model"
)

func TestControl_CheckpointPassesWhenRunning(t *testing.T) {
	c := NewControl()
	if err := c.Checkpoint(context.Background(), 10*time.Millisecond); err != nil {
		t.Errorf("Checkpoint() = %v, expected nil", err)
	}
}

func TestControl_CheckpointCancelWhilePaused(t *testing.T) {
	c := NewControl()
	c.Pause()
	interval := 40 * time.Millisecond

	result := make(chan error, 1)
	go func() {
		result <- c.Checkpoint(context.Background(), interval)
	}()

	select {
	case err := <-result:
		t.Fatalf("Checkpoint returned %v while still paused", err)
	case <-time.After(3 * interval):
	}

	cancelledAt := time.Now()
	c.Cancel()

	select {
	case err := <-result:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Checkpoint() = %v, expected ErrCancelled", err)
		}
		if waited := time.Since(cancelledAt); waited > interval+100*time.Millisecond {
			t.Errorf("cancel observed after %v, expected within one interval", waited)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Checkpoint did not return after cancel")
	}
}

func TestControl_CheckpointUnpause(t *testing.T) {
	c := NewControl()
	c.Pause()

	result := make(chan error, 1)
	go func() {
		result <- c.Checkpoint(context.Background(), 10*time.Millisecond)
	}()

	time.Sleep(30 * time.Millisecond)
	c.Unpause()

	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Checkpoint() = %v after unpause, expected nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Checkpoint did not return after unpause")
	}
}

func TestControl_CheckpointContext(t *testing.T) {
	c := NewControl()
	c.Pause()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Checkpoint(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("Checkpoint() = %v, expected context.Canceled", err)
	}
}

func TestControl_Files(t *testing.T) {
	c := NewControl()
	c.AddFiles("b.mp4.part", "", "a.webm")
	c.AddFiles("b.mp4.part")

	expected := []string{"a.webm", "b.mp4.part"}
	if got := c.Files(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Files() = %v, expected %v", got, expected)
	}
}

func TestControl_Formats(t *testing.T) {
	c := NewControl()
	if c.Formats() != nil {
		t.Error("expected nil format map")
	}
	c.SetFormats(map[string]model.Format{"137": {ID: "137", Kind: model.FormatVideo}})
	if c.Formats()["137"].Kind != model.FormatVideo {
		t.Error("format map not published")
	}
}
