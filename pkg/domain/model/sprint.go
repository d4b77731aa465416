package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
)

// Sprint is a time-boxed period during which tasks are worked on.
// Membership is a many-to-many relation: a task may belong to any
// number of sprints.
type Sprint struct {
	ID          types.SprintID
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	CreatorID   types.UserID
	EpicID      types.EpicID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the sprint invariants: non-empty name, both dates
// set, and an end date strictly after the start date.
func (s *Sprint) Validate() error {
	if s.Name == "" {
		return goerr.New("sprint name is required")
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return goerr.New("sprint start and end dates are required")
	}
	if !DateOf(s.EndDate).After(DateOf(s.StartDate)) {
		return goerr.New("sprint end date must be after its start date",
			goerr.V("start_date", s.StartDate),
			goerr.V("end_date", s.EndDate))
	}
	return nil
}

// Contains reports whether the given time falls within the sprint
// window [StartDate, EndDate], inclusive on both ends. The comparison
// is by calendar date.
func (s *Sprint) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(s.StartDate)) && !d.After(DateOf(s.EndDate))
}

// Clone returns a deep copy of the sprint.
func (s *Sprint) Clone() *Sprint {
	copied := *s
	return &copied
}
