package model

// TaskState represents the lifecycle state of a download task
type TaskState string

const (
	// StatePending means the task is created but its worker has not reported yet
	StatePending TaskState = "Pending"

	// StateRunning means the worker is active and not paused
	StateRunning TaskState = "Running"

	// StatePaused means the worker is blocked at a checkpoint by user request
	StatePaused TaskState = "Paused"

	// StateSoftCancelled means the task is paused pending a resume or delete decision
	StateSoftCancelled TaskState = "SoftCancelled"

	// StateDeleting means cancel was requested and cleanup is in flight
	StateDeleting TaskState = "Deleting"

	// StateDone means the download finished successfully
	StateDone TaskState = "Done"

	// StateCancelled means the worker observed cancellation and exited
	StateCancelled TaskState = "Cancelled"

	// StateError means the engine failed with a non-cancellation error
	StateError TaskState = "Error"
)

// String returns the string representation of TaskState
func (s TaskState) String() string {
	return string(s)
}

// IsActive returns true while a worker is expected to be running
func (s TaskState) IsActive() bool {
	return s == StatePending || s == StateRunning || s == StatePaused || s == StateSoftCancelled
}

// IsTerminal returns true for Done, Cancelled and Error
func (s TaskState) IsTerminal() bool {
	return s == StateDone || s == StateCancelled || s == StateError
}

// CanPause reports whether the pause toggle applies in this state
func (s TaskState) CanPause() bool {
	return s == StatePending || s == StateRunning || s == StatePaused
}

// CanDelete reports whether files of a task in this state may be removed
func (s TaskState) CanDelete() bool {
	return s == StateSoftCancelled || s == StateCancelled || s == StateError
}
