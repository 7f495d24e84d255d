package download

import (
	"github.com/google/uuid"
)

// newID returns a time-ordered identifier, falling back to a random one
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + id.String()
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return newID("task-")
}

// generateBatchID generates a unique playlist batch ID
func generateBatchID() string {
	return newID("batch-")
}
