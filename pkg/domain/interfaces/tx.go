package interfaces

import (
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// Tx is the narrow store contract available inside a transaction
// opened by Repository.InTx. All mutations are tentative until the
// enclosing transaction commits.
type Tx interface {
	// LockTask acquires an exclusive lock on the task row for the
	// remainder of the transaction and returns its current state.
	// Concurrent lockers of the same task block (or are serialized by
	// the backend) until the holding transaction ends. Returns
	// ErrNotFound if the task does not exist.
	LockTask(taskID types.TaskID) (*model.Task, error)

	// SaveTask persists mutated fields of a task previously obtained
	// through LockTask in the same transaction.
	SaveTask(t *model.Task) error

	// CreateTask inserts a new task and returns it with its assigned
	// identifier. Store-boundary invariants (title, status enum,
	// due date not before creation date) are enforced here.
	CreateTask(t *model.Task) (*model.Task, error)

	// GetSprint reads a sprint consistently within the transaction.
	// Returns ErrNotFound if the sprint does not exist.
	GetSprint(id types.SprintID) (*model.Sprint, error)

	// AddSprintTask inserts a sprint-task membership row. Inserting a
	// membership that already exists is a no-op.
	AddSprintTask(sprintID types.SprintID, taskID types.TaskID) error
}
