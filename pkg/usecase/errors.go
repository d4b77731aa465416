package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrTaskNotFound   = errors.New("task not found")
	ErrSprintNotFound = errors.New("sprint not found")
	ErrEpicNotFound   = errors.New("epic not found")

	// Conflict errors. Losing a claim race is an ordinary outcome, not
	// a system fault; callers decide whether to retry.
	ErrTaskAlreadyClaimed = errors.New("task is already claimed")

	// Validation errors
	ErrSprintClosed = errors.New("current date is outside the sprint window")
	ErrInvalidInput = errors.New("invalid input")
)

// Context keys for error values
const (
	TaskIDKey   = "task_id"
	SprintIDKey = "sprint_id"
	EpicIDKey   = "epic_id"
	UserIDKey   = "user_id"
)
