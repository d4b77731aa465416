package usecase

import (
	"time"

	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
)

type UseCases struct {
	repo   interfaces.Repository
	now    func() time.Time
	Task   *TaskUseCase
	Sprint *SprintUseCase
	Epic   *EpicUseCase
}

type Option func(*UseCases)

// WithClock overrides the wall clock. Used by tests to pin the current
// date for sprint-window checks.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Task = NewTaskUseCase(repo, uc.now)
	uc.Sprint = NewSprintUseCase(repo)
	uc.Epic = NewEpicUseCase(repo)

	return uc
}
