package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"github.com/syafiqkay/taskdeck/pkg/utils/logging"
)

// Transaction retry policy for transient contention. Only errors
// marked as interfaces.ErrTxContention are retried; business failures
// such as a lost claim race are returned on the first attempt.
const maxTxAttempts = 3

const txRetryBaseDelay = 25 * time.Millisecond

type TaskUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewTaskUseCase(repo interfaces.Repository, now func() time.Time) *TaskUseCase {
	if now == nil {
		now = time.Now
	}
	return &TaskUseCase{
		repo: repo,
		now:  now,
	}
}

// CreateTaskInput holds the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      types.TaskStatus
	DueDate     time.Time
	EpicID      types.EpicID
}

func (in *CreateTaskInput) toTask(creator types.UserID) (*model.Task, error) {
	if in.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "task title is required")
	}

	status := in.Status.Normalize()
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid task status", goerr.V("status", in.Status))
	}

	return &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		CreatorID:   creator,
		EpicID:      in.EpicID,
	}, nil
}

// ClaimTask atomically transitions an unclaimed task to IN_PROGRESS
// owned by the calling user. The task row is locked for the whole
// check-and-update, so across any number of concurrent claims on one
// task exactly one succeeds; the rest get ErrTaskAlreadyClaimed.
func (uc *TaskUseCase) ClaimTask(ctx context.Context, userID types.UserID, taskID types.TaskID) error {
	if userID == "" {
		return goerr.Wrap(ErrInvalidInput, "user ID is required")
	}

	return uc.withTxRetry(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		// Re-read under the lock; a pre-lock read could be stale.
		task, err := tx.LockTask(taskID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, taskID))
			}
			return goerr.Wrap(err, "failed to lock task", goerr.V(TaskIDKey, taskID))
		}

		// Ownership is the authoritative block condition; status is
		// informational for claiming purposes.
		if task.Claimed() {
			return goerr.Wrap(ErrTaskAlreadyClaimed, "task is already claimed",
				goerr.V(TaskIDKey, taskID),
				goerr.V("owner_id", task.OwnerID))
		}

		task.Status = types.TaskStatusInProgress
		task.OwnerID = userID

		if err := tx.SaveTask(task); err != nil {
			return goerr.Wrap(err, "failed to save claimed task", goerr.V(TaskIDKey, taskID))
		}

		return nil
	})
}

// CreateTaskInSprint creates a new task and adds it to the sprint's
// membership in one transaction, but only while the current date falls
// within the sprint window [start_date, end_date], inclusive. On any
// failure neither the task nor the membership is persisted.
func (uc *TaskUseCase) CreateTaskInSprint(ctx context.Context, input CreateTaskInput, sprintID types.SprintID, creator types.UserID) (*model.Task, error) {
	// Validate before the transaction so a bad request has zero side
	// effects and never touches the store.
	task, err := input.toTask(creator)
	if err != nil {
		return nil, err
	}

	today := uc.now()

	var created *model.Task
	err = uc.withTxRetry(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		sprint, err := tx.GetSprint(sprintID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrSprintNotFound, "sprint not found", goerr.V(SprintIDKey, sprintID))
			}
			return goerr.Wrap(err, "failed to get sprint", goerr.V(SprintIDKey, sprintID))
		}

		if !sprint.Contains(today) {
			return goerr.Wrap(ErrSprintClosed, "cannot add task to sprint: current date is outside the sprint window",
				goerr.V(SprintIDKey, sprintID),
				goerr.V("start_date", sprint.StartDate),
				goerr.V("end_date", sprint.EndDate),
				goerr.V("today", today))
		}

		created, err = tx.CreateTask(task)
		if err != nil {
			return goerr.Wrap(err, "failed to create task", goerr.V(SprintIDKey, sprintID))
		}

		if err := tx.AddSprintTask(sprintID, created.ID); err != nil {
			return goerr.Wrap(err, "failed to add task to sprint",
				goerr.V(SprintIDKey, sprintID),
				goerr.V(TaskIDKey, created.ID))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// CreateTask creates a task outside of any sprint. An epic reference,
// if given, must resolve to an existing epic.
func (uc *TaskUseCase) CreateTask(ctx context.Context, input CreateTaskInput, creator types.UserID) (*model.Task, error) {
	task, err := input.toTask(creator)
	if err != nil {
		return nil, err
	}

	if task.EpicID != 0 {
		if _, err := uc.repo.Epic().Get(ctx, task.EpicID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, goerr.Wrap(ErrEpicNotFound, "epic not found", goerr.V(EpicIDKey, task.EpicID))
			}
			return nil, goerr.Wrap(err, "failed to get epic", goerr.V(EpicIDKey, task.EpicID))
		}
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}

	return created, nil
}

func (uc *TaskUseCase) GetTask(ctx context.Context, id types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, id))
	}

	return task, nil
}

func (uc *TaskUseCase) ListTasks(ctx context.Context, opts ...interfaces.ListTaskOption) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// UpdateTaskStatus sets the task status through the update path that
// the claim operation does not own (e.g. moving a task to DONE or
// ARCHIVED). The row is locked for the read-modify-write so a claim
// committing in between cannot be clobbered by a stale row image;
// ownership is left untouched.
func (uc *TaskUseCase) UpdateTaskStatus(ctx context.Context, id types.TaskID, status types.TaskStatus) (*model.Task, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid task status", goerr.V("status", status))
	}

	var updated *model.Task
	err := uc.withTxRetry(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		task, err := tx.LockTask(id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
			}
			return goerr.Wrap(err, "failed to lock task", goerr.V(TaskIDKey, id))
		}

		task.Status = status
		if err := tx.SaveTask(task); err != nil {
			return goerr.Wrap(err, "failed to update task status", goerr.V(TaskIDKey, id))
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// withTxRetry runs fn in a transaction, retrying with bounded backoff
// when the backend reports transient contention.
func (uc *TaskUseCase) withTxRetry(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			logging.From(ctx).Warn("retrying contended transaction", "attempt", attempt)
			select {
			case <-ctx.Done():
				return goerr.Wrap(ctx.Err(), "context cancelled while retrying transaction")
			case <-time.After(time.Duration(attempt) * txRetryBaseDelay):
			}
		}

		err = uc.repo.InTx(ctx, fn)
		if err == nil || !errors.Is(err, interfaces.ErrTxContention) {
			return err
		}
	}

	return goerr.Wrap(err, "transaction contention persisted after retries")
}
