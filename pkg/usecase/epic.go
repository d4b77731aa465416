package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

type EpicUseCase struct {
	repo interfaces.Repository
}

func NewEpicUseCase(repo interfaces.Repository) *EpicUseCase {
	return &EpicUseCase{
		repo: repo,
	}
}

func (uc *EpicUseCase) CreateEpic(ctx context.Context, name, description string, creator types.UserID) (*model.Epic, error) {
	epic := &model.Epic{
		Name:        name,
		Description: description,
		CreatorID:   creator,
	}
	if err := epic.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid epic", goerr.V("cause", err.Error()))
	}

	created, err := uc.repo.Epic().Create(ctx, epic)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create epic")
	}

	return created, nil
}

func (uc *EpicUseCase) GetEpic(ctx context.Context, id types.EpicID) (*model.Epic, error) {
	epic, err := uc.repo.Epic().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrEpicNotFound, "epic not found", goerr.V(EpicIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get epic", goerr.V(EpicIDKey, id))
	}

	return epic, nil
}

func (uc *EpicUseCase) ListEpics(ctx context.Context) ([]*model.Epic, error) {
	epics, err := uc.repo.Epic().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list epics")
	}

	return epics, nil
}
