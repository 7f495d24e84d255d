package model

import "fmt"

// DefaultCleanupErrorLimit bounds the number of failures shown to the user
const DefaultCleanupErrorLimit = 10

// CleanupReport is the result of removing a task's files
type CleanupReport struct {
	Removed int
	Errors  []string // "path: message"
}

// HasErrors reports whether any candidate could not be removed
func (r CleanupReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary lists at most limit errors after the removed count, with an
// ellipsis line when more were collected.
func (r CleanupReport) Summary(limit int) string {
	if limit <= 0 {
		limit = DefaultCleanupErrorLimit
	}
	s := fmt.Sprintf("Files removed: %d", r.Removed)
	if !r.HasErrors() {
		return s
	}
	s += "\n\nCould not remove (possibly in use):"
	shown := r.Errors
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, e := range shown {
		s += "\n" + e
	}
	if len(r.Errors) > limit {
		s += "\n…"
	}
	return s
}
