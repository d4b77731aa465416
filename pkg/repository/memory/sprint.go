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

type sprintRepository struct {
	st *state
}

func (r *sprintRepository) Create(ctx context.Context, s *model.Sprint) (*model.Sprint, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	created := s.Clone()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := created.Validate(); err != nil {
		return nil, err
	}

	r.st.sprintSeq++
	created.ID = types.SprintID(r.st.sprintSeq)
	r.st.sprints[created.ID] = created

	return created.Clone(), nil
}

func (r *sprintRepository) Get(ctx context.Context, id types.SprintID) (*model.Sprint, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	s, exists := r.st.sprints[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", id))
	}

	return s.Clone(), nil
}

func (r *sprintRepository) List(ctx context.Context) ([]*model.Sprint, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var sprints []*model.Sprint
	for _, s := range r.st.sprints {
		sprints = append(sprints, s.Clone())
	}

	sort.Slice(sprints, func(i, j int) bool {
		return sprints[i].ID < sprints[j].ID
	})

	return sprints, nil
}

func (r *sprintRepository) Update(ctx context.Context, s *model.Sprint) (*model.Sprint, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	existing, exists := r.st.sprints[s.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", s.ID))
	}

	updated := s.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	r.st.sprints[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *sprintRepository) AddTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.sprints[sprintID]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", sprintID))
	}
	if _, exists := r.st.tasks[taskID]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", taskID))
	}

	key := membershipKey{sprintID: sprintID, taskID: taskID}
	if _, exists := r.st.memberships[key]; exists {
		return nil
	}
	r.st.memberships[key] = time.Now().UTC()

	return nil
}

func (r *sprintRepository) RemoveTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.sprints[sprintID]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", sprintID))
	}

	delete(r.st.memberships, membershipKey{sprintID: sprintID, taskID: taskID})
	return nil
}

func (r *sprintRepository) ListTasks(ctx context.Context, sprintID types.SprintID) ([]types.TaskID, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	if _, exists := r.st.sprints[sprintID]; !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", sprintID))
	}

	var ids []types.TaskID
	for key := range r.st.memberships {
		if key.sprintID == sprintID {
			ids = append(ids, key.taskID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}
