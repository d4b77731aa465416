package interfaces

import (
	"context"

	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// EpicRepository defines the interface for Epic data access
type EpicRepository interface {
	// Create creates a new epic with auto-generated ID
	Create(ctx context.Context, e *model.Epic) (*model.Epic, error)

	// Get retrieves an epic by ID
	Get(ctx context.Context, id types.EpicID) (*model.Epic, error)

	// List retrieves all epics
	List(ctx context.Context) ([]*model.Epic, error)
}
