package interfaces

import (
	"context"

	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// Create creates a new task with auto-generated ID
	Create(ctx context.Context, t *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// List retrieves tasks with optional filtering
	List(ctx context.Context, opts ...ListTaskOption) ([]*model.Task, error)

	// Update updates an existing task
	Update(ctx context.Context, t *model.Task) (*model.Task, error)
}

// ListTaskFilter holds the filter criteria for listing tasks.
type ListTaskFilter struct {
	Status  types.TaskStatus
	OwnerID types.UserID
	EpicID  types.EpicID
}

// ListTaskOption configures a ListTaskFilter.
type ListTaskOption func(*ListTaskFilter)

// WithStatus filters tasks by status.
func WithStatus(s types.TaskStatus) ListTaskOption {
	return func(f *ListTaskFilter) {
		f.Status = s
	}
}

// WithOwner filters tasks by owner.
func WithOwner(u types.UserID) ListTaskOption {
	return func(f *ListTaskFilter) {
		f.OwnerID = u
	}
}

// WithEpic filters tasks by epic.
func WithEpic(id types.EpicID) ListTaskOption {
	return func(f *ListTaskFilter) {
		f.EpicID = id
	}
}

// Match reports whether a task satisfies the filter.
func (f *ListTaskFilter) Match(t *model.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	if f.EpicID != 0 && t.EpicID != f.EpicID {
		return false
	}
	return true
}
