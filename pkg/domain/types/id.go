package types

import "strconv"

// TaskID identifies a task. IDs are assigned by the repository from a
// monotonic counter and are immutable once assigned.
type TaskID int64

func (id TaskID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// SprintID identifies a sprint.
type SprintID int64

func (id SprintID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// EpicID identifies an epic. The zero value means "no epic".
type EpicID int64

func (id EpicID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UserID identifies a user. The empty string means "no user"; a task
// with an empty OwnerID is unclaimed.
type UserID string

func (id UserID) String() string {
	return string(id)
}
