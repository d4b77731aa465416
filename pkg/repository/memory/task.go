package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

type taskRepository struct {
	st *state
}

// newTaskRecord applies store-boundary defaults and invariants to a
// task about to be inserted. The caller assigns the ID afterwards.
func newTaskRecord(t *model.Task, now time.Time) (*model.Task, error) {
	created := t.Clone()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.DueDate.IsZero() {
		created.DueDate = model.DateOf(now)
	}
	if err := created.Validate(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *taskRepository) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	created, err := newTaskRecord(t, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	r.st.taskSeq++
	created.ID = types.TaskID(r.st.taskSeq)
	r.st.tasks[created.ID] = created

	return created.Clone(), nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	t, exists := r.st.tasks[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
	}

	return t.Clone(), nil
}

func (r *taskRepository) List(ctx context.Context, opts ...interfaces.ListTaskOption) ([]*model.Task, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var filter interfaces.ListTaskFilter
	for _, opt := range opts {
		opt(&filter)
	}

	var tasks []*model.Task
	for _, t := range r.st.tasks {
		if filter.Match(t) {
			tasks = append(tasks, t.Clone())
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, t *model.Task) (*model.Task, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	existing, exists := r.st.tasks[t.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", t.ID))
	}

	updated := t.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	r.st.tasks[updated.ID] = updated
	return updated.Clone(), nil
}
