package types

import "fmt"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusUnassigned TaskStatus = "UNASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusUnassigned,
		TaskStatusInProgress,
		TaskStatusDone,
		TaskStatusArchived,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusUnassigned,
		TaskStatusInProgress,
		TaskStatusDone,
		TaskStatusArchived:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is one from which claiming a
// task is no longer meaningful.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusDone || s == TaskStatusArchived
}

// Normalize returns the status, treating empty as TaskStatusUnassigned.
func (s TaskStatus) Normalize() TaskStatus {
	if s == "" {
		return TaskStatusUnassigned
	}
	return s
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}
