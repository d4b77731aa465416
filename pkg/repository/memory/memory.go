package memory

import (
	"context"
	"sync"
	"time"

	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// membershipKey identifies one sprint-task membership row.
type membershipKey struct {
	sprintID types.SprintID
	taskID   types.TaskID
}

// state is the shared durable state of the in-memory backend. One
// mutex guards everything so that InTx can hold exclusive access for
// the whole transaction, which is the in-process equivalent of the
// row-level lock the firestore backend gets from its transactions.
type state struct {
	mu          sync.RWMutex
	tasks       map[types.TaskID]*model.Task
	sprints     map[types.SprintID]*model.Sprint
	epics       map[types.EpicID]*model.Epic
	memberships map[membershipKey]time.Time
	taskSeq     int64
	sprintSeq   int64
	epicSeq     int64
}

type Memory struct {
	st     *state
	task   *taskRepository
	sprint *sprintRepository
	epic   *epicRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	st := &state{
		tasks:       make(map[types.TaskID]*model.Task),
		sprints:     make(map[types.SprintID]*model.Sprint),
		epics:       make(map[types.EpicID]*model.Epic),
		memberships: make(map[membershipKey]time.Time),
	}

	return &Memory{
		st:     st,
		task:   &taskRepository{st: st},
		sprint: &sprintRepository{st: st},
		epic:   &epicRepository{st: st},
	}
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Sprint() interfaces.SprintRepository {
	return m.sprint
}

func (m *Memory) Epic() interfaces.EpicRepository {
	return m.epic
}

// InTx holds the store-wide write lock for the duration of fn, so the
// transaction observes and mutates a frozen view of the store. Writes
// are staged in the Tx and applied only when fn returns nil; any error
// discards them, leaving the store untouched.
func (m *Memory) InTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()

	tx := newMemoryTx(m.st)
	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
