package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// Task is a single unit of work. A task with an empty OwnerID is
// unclaimed; ownership is taken through the claim operation only.
type Task struct {
	ID          types.TaskID
	Title       string
	Description string
	Status      types.TaskStatus
	DueDate     time.Time
	OwnerID     types.UserID
	CreatorID   types.UserID
	EpicID      types.EpicID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Claimed reports whether the task has an owner. Ownership is the
// authoritative block condition for claiming; status is informational.
func (t *Task) Claimed() bool {
	return t.OwnerID != ""
}

// Validate checks the task invariants enforced at the store boundary:
// non-empty title, a valid status value, and a due date that is not
// earlier than the creation date.
func (t *Task) Validate() error {
	if t.Title == "" {
		return goerr.New("task title is required")
	}
	if !t.Status.IsValid() {
		return goerr.New("invalid task status", goerr.V("status", t.Status))
	}
	if !t.DueDate.IsZero() && !t.CreatedAt.IsZero() {
		if DateOf(t.DueDate).Before(DateOf(t.CreatedAt)) {
			return goerr.New("task due date must not be before its creation date",
				goerr.V("due_date", t.DueDate),
				goerr.V("created_at", t.CreatedAt))
		}
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	copied := *t
	return &copied
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
