package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"github.com/syafiqkay/taskdeck/pkg/repository/memory"
)

func runEpicRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates epic with auto-increment ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1, err := repo.Epic().Create(ctx, &model.Epic{
			Name:        "Observability",
			Description: "Tracing and metrics rollout",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created1.ID).NotEqual(types.EpicID(0))
		gt.Value(t, created1.Name).Equal("Observability")

		created2, err := repo.Epic().Create(ctx, &model.Epic{Name: "Billing"})
		gt.NoError(t, err).Required()
		gt.Value(t, created2.ID).NotEqual(created1.ID)
	})

	t.Run("Create rejects empty name", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Epic().Create(context.Background(), &model.Epic{})
		gt.Error(t, err)
	})

	t.Run("Get retrieves existing epic", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Epic().Create(ctx, &model.Epic{Name: "Migrations"})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Epic().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Name).Equal("Migrations")
	})

	t.Run("Get returns ErrNotFound for non-existent epic", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Epic().Get(context.Background(), types.EpicID(time.Now().UnixNano()))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("List retrieves all epics", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"Epic A", "Epic B", "Epic C"} {
			_, err := repo.Epic().Create(ctx, &model.Epic{Name: name})
			gt.NoError(t, err).Required()
		}

		epics, err := repo.Epic().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(epics)).GreaterOrEqual(3)
	})
}

func TestEpicRepository_Memory(t *testing.T) {
	runEpicRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestEpicRepository_Firestore(t *testing.T) {
	runEpicRepositoryTest(t, newFirestoreRepo)
}
