package memory

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// memoryTx stages writes while the store-wide lock is held by InTx.
// Nothing touches the shared state until commit, so a failed
// transaction leaves the store byte-for-byte as it was.
type memoryTx struct {
	st           *state
	taskSeq      int64
	pendingTasks map[types.TaskID]*model.Task
	pendingAdds  map[membershipKey]time.Time
}

var _ interfaces.Tx = &memoryTx{}

func newMemoryTx(st *state) *memoryTx {
	return &memoryTx{
		st:           st,
		taskSeq:      st.taskSeq,
		pendingTasks: make(map[types.TaskID]*model.Task),
		pendingAdds:  make(map[membershipKey]time.Time),
	}
}

// LockTask reads the task under the exclusive store lock held by the
// enclosing InTx. The lock spans until InTx returns, so the returned
// state cannot change out from under the transaction.
func (tx *memoryTx) LockTask(taskID types.TaskID) (*model.Task, error) {
	if t, exists := tx.pendingTasks[taskID]; exists {
		return t.Clone(), nil
	}

	t, exists := tx.st.tasks[taskID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", taskID))
	}

	return t.Clone(), nil
}

func (tx *memoryTx) SaveTask(t *model.Task) error {
	if _, staged := tx.pendingTasks[t.ID]; !staged {
		if _, exists := tx.st.tasks[t.ID]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", t.ID))
		}
	}

	saved := t.Clone()
	saved.UpdatedAt = time.Now().UTC()
	if err := saved.Validate(); err != nil {
		return err
	}

	tx.pendingTasks[saved.ID] = saved
	return nil
}

func (tx *memoryTx) CreateTask(t *model.Task) (*model.Task, error) {
	created, err := newTaskRecord(t, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	tx.taskSeq++
	created.ID = types.TaskID(tx.taskSeq)
	tx.pendingTasks[created.ID] = created

	return created.Clone(), nil
}

func (tx *memoryTx) GetSprint(id types.SprintID) (*model.Sprint, error) {
	s, exists := tx.st.sprints[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", id))
	}

	return s.Clone(), nil
}

func (tx *memoryTx) AddSprintTask(sprintID types.SprintID, taskID types.TaskID) error {
	if _, exists := tx.st.sprints[sprintID]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", sprintID))
	}

	if _, staged := tx.pendingTasks[taskID]; !staged {
		if _, exists := tx.st.tasks[taskID]; !exists {
			return goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", taskID))
		}
	}

	key := membershipKey{sprintID: sprintID, taskID: taskID}
	if _, exists := tx.st.memberships[key]; exists {
		return nil
	}
	tx.pendingAdds[key] = time.Now().UTC()

	return nil
}

// commit applies the staged writes. The caller still holds the store
// lock, so the apply is atomic with respect to every other operation.
func (tx *memoryTx) commit() {
	tx.st.taskSeq = tx.taskSeq
	for id, t := range tx.pendingTasks {
		tx.st.tasks[id] = t
	}
	for key, addedAt := range tx.pendingAdds {
		if _, exists := tx.st.memberships[key]; !exists {
			tx.st.memberships[key] = addedAt
		}
	}
}
