package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// Epic is a large body of work that groups related tasks together.
type Epic struct {
	ID          types.EpicID
	Name        string
	Description string
	CreatorID   types.UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *Epic) Validate() error {
	if e.Name == "" {
		return goerr.New("epic name is required")
	}
	return nil
}

// Clone returns a deep copy of the epic.
func (e *Epic) Clone() *Epic {
	copied := *e
	return &copied
}
