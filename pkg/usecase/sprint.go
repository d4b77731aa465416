package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

type SprintUseCase struct {
	repo interfaces.Repository
}

func NewSprintUseCase(repo interfaces.Repository) *SprintUseCase {
	return &SprintUseCase{
		repo: repo,
	}
}

// CreateSprint creates a new sprint. The end date must be strictly
// after the start date; nothing is written otherwise.
func (uc *SprintUseCase) CreateSprint(ctx context.Context, name, description string, startDate, endDate time.Time, creator types.UserID) (*model.Sprint, error) {
	sprint := &model.Sprint{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatorID:   creator,
	}
	if err := sprint.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid sprint", goerr.V("cause", err.Error()))
	}

	created, err := uc.repo.Sprint().Create(ctx, sprint)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create sprint")
	}

	return created, nil
}

func (uc *SprintUseCase) GetSprint(ctx context.Context, id types.SprintID) (*model.Sprint, error) {
	sprint, err := uc.repo.Sprint().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSprintNotFound, "sprint not found", goerr.V(SprintIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get sprint", goerr.V(SprintIDKey, id))
	}

	return sprint, nil
}

func (uc *SprintUseCase) ListSprints(ctx context.Context) ([]*model.Sprint, error) {
	sprints, err := uc.repo.Sprint().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sprints")
	}

	return sprints, nil
}

// SetSprintEpic associates the sprint with an epic. A zero epic ID
// clears the association; a non-zero ID must resolve to an existing
// epic.
func (uc *SprintUseCase) SetSprintEpic(ctx context.Context, sprintID types.SprintID, epicID types.EpicID) (*model.Sprint, error) {
	sprint, err := uc.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	if epicID != 0 {
		if _, err := uc.repo.Epic().Get(ctx, epicID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, goerr.Wrap(ErrEpicNotFound, "epic not found", goerr.V(EpicIDKey, epicID))
			}
			return nil, goerr.Wrap(err, "failed to get epic", goerr.V(EpicIDKey, epicID))
		}
	}

	sprint.EpicID = epicID
	updated, err := uc.repo.Sprint().Update(ctx, sprint)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set sprint epic",
			goerr.V(SprintIDKey, sprintID),
			goerr.V(EpicIDKey, epicID))
	}

	return updated, nil
}

// RemoveTaskFromSprint deletes the sprint-task membership. Removing a
// task that is not a member is a no-op.
func (uc *SprintUseCase) RemoveTaskFromSprint(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error {
	if err := uc.repo.Sprint().RemoveTask(ctx, sprintID, taskID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrSprintNotFound, "sprint not found", goerr.V(SprintIDKey, sprintID))
		}
		return goerr.Wrap(err, "failed to remove task from sprint",
			goerr.V(SprintIDKey, sprintID),
			goerr.V(TaskIDKey, taskID))
	}

	return nil
}

// ListSprintTasks returns the member tasks of a sprint.
func (uc *SprintUseCase) ListSprintTasks(ctx context.Context, sprintID types.SprintID) ([]*model.Task, error) {
	ids, err := uc.repo.Sprint().ListTasks(ctx, sprintID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSprintNotFound, "sprint not found", goerr.V(SprintIDKey, sprintID))
		}
		return nil, goerr.Wrap(err, "failed to list sprint tasks", goerr.V(SprintIDKey, sprintID))
	}

	tasks := make([]*model.Task, 0, len(ids))
	for _, id := range ids {
		task, err := uc.repo.Task().Get(ctx, id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				// Membership rows are never deleted by the claim/create
				// core; a missing task means an out-of-band deletion.
				// Skip rather than fail the whole listing.
				continue
			}
			return nil, goerr.Wrap(err, "failed to get sprint task", goerr.V(TaskIDKey, id))
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
