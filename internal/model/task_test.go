package model

import (
	"math"
	"strings"
	"testing"
)

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		url      string
		expected string
	}{
		{"Video Title", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
		{"—", "https://youtube.com/watch?v=456", "https://youtube.com/watch?v=456"},
		{"https://youtube.com/watch?v=789", "https://youtube.com/watch?v=789", "https://youtube.com/watch?v=789"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Title: test.title,
			URL:   test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title='%s', url='%s' = '%s', expected '%s'",
				test.title, test.url, result, test.expected)
		}
	}
}

func TestDownloadTask_Apply(t *testing.T) {
	task := &DownloadTask{ID: "t1", Status: "Preparing", Speed: "1 MiB/s"}

	task.Apply(Fields{Status: Text("Downloading video:"), Progress: Ratio(1.7)})
	if task.Status != "Downloading video:" {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Progress != 1 {
		t.Errorf("Progress = %v, expected clamp to 1", task.Progress)
	}
	if task.Speed != "1 MiB/s" {
		t.Errorf("Speed must be preserved when the update omits it, got %q", task.Speed)
	}

	task.Apply(Fields{Status: Text("Done")}.ClearTransient())
	if task.Speed != "" || task.ETA != "" || task.Total != "" || task.Percent != "" {
		t.Errorf("Transient fields not cleared: %+v", task)
	}

	task.Apply(Fields{Outcome: OutcomeError, Error: "boom"})
	if task.LastError != "boom" {
		t.Errorf("LastError = %q", task.LastError)
	}

	info := NewTarget("u", "Real title")
	task.Apply(Fields{Info: &info})
	if task.Title != "Real title" {
		t.Errorf("Title = %q", task.Title)
	}
}

func TestClampRatio(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{-0.5, 0},
		{0.25, 0.25},
		{1.0000001, 1},
		{math.NaN(), 0},
	}
	for _, test := range tests {
		if got := ClampRatio(test.in); got != test.expected {
			t.Errorf("ClampRatio(%v) = %v, expected %v", test.in, got, test.expected)
		}
	}
}

func TestOutcome(t *testing.T) {
	if OutcomeNone.IsTerminal() {
		t.Error("OutcomeNone must not be terminal")
	}
	if OutcomeDone.State() != StateDone || OutcomeCancelled.State() != StateCancelled || OutcomeError.State() != StateError {
		t.Error("Outcome.State mapping is wrong")
	}
}

func TestCleanupReport_Summary(t *testing.T) {
	r := CleanupReport{Removed: 3}
	if got := r.Summary(10); got != "Files removed: 3" {
		t.Errorf("Summary() = %q", got)
	}

	for i := 0; i < 12; i++ {
		r.Errors = append(r.Errors, "f: locked")
	}
	got := r.Summary(10)
	if strings.Count(got, "f: locked") != 10 {
		t.Errorf("expected 10 listed errors, got %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis line, got %q", got)
	}
}

func TestPlaylist_AddEntry(t *testing.T) {
	p := NewPlaylist("https://youtube.com/playlist?list=PL1")
	p.AddEntry(NewTarget("https://youtube.com/watch?v=a", "A"))
	p.AddEntry(Target{Title: "no url"})
	if p.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", p.Len())
	}
}
