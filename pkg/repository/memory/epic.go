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

type epicRepository struct {
	st *state
}

func (r *epicRepository) Create(ctx context.Context, e *model.Epic) (*model.Epic, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	created := e.Clone()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := created.Validate(); err != nil {
		return nil, err
	}

	r.st.epicSeq++
	created.ID = types.EpicID(r.st.epicSeq)
	r.st.epics[created.ID] = created

	return created.Clone(), nil
}

func (r *epicRepository) Get(ctx context.Context, id types.EpicID) (*model.Epic, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	e, exists := r.st.epics[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "epic not found", goerr.V("id", id))
	}

	return e.Clone(), nil
}

func (r *epicRepository) List(ctx context.Context) ([]*model.Epic, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var epics []*model.Epic
	for _, e := range r.st.epics {
		epics = append(epics, e.Clone())
	}

	sort.Slice(epics, func(i, j int) bool {
		return epics[i].ID < epics[j].ID
	})

	return epics, nil
}
