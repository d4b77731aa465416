package interfaces

import (
	"context"

	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// SprintRepository defines the interface for Sprint data access
type SprintRepository interface {
	// Create creates a new sprint with auto-generated ID
	Create(ctx context.Context, s *model.Sprint) (*model.Sprint, error)

	// Get retrieves a sprint by ID
	Get(ctx context.Context, id types.SprintID) (*model.Sprint, error)

	// List retrieves all sprints
	List(ctx context.Context) ([]*model.Sprint, error)

	// Update updates an existing sprint
	Update(ctx context.Context, s *model.Sprint) (*model.Sprint, error)

	// AddTask inserts a sprint-task membership. Adding a task that is
	// already a member is a no-op.
	AddTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error

	// RemoveTask deletes a sprint-task membership. Removing a task
	// that is not a member is a no-op.
	RemoveTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error

	// ListTasks returns the IDs of the sprint's member tasks.
	ListTasks(ctx context.Context, sprintID types.SprintID) ([]types.TaskID, error)
}
