package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

const seedDateLayout = "2006-01-02"

// Seed is the TOML-defined initial data applied by the migrate command.
type Seed struct {
	Epics   []SeedEpic   `toml:"epic"`
	Sprints []SeedSprint `toml:"sprint"`
}

// SeedEpic describes an epic to create at migration time.
type SeedEpic struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the SeedEpic is valid
func (e *SeedEpic) Validate() error {
	if e.Name == "" {
		return goerr.New("epic name is required")
	}
	return nil
}

// SeedSprint describes a sprint to create at migration time. Dates use
// the YYYY-MM-DD layout.
type SeedSprint struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	StartDate   string `toml:"start_date"`
	EndDate     string `toml:"end_date"`
}

// Validate checks if the SeedSprint is valid
func (s *SeedSprint) Validate() error {
	if s.Name == "" {
		return goerr.New("sprint name is required")
	}
	start, err := s.Start()
	if err != nil {
		return err
	}
	end, err := s.End()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return goerr.New("sprint end date must be after its start date",
			goerr.V("name", s.Name),
			goerr.V("start_date", s.StartDate),
			goerr.V("end_date", s.EndDate))
	}
	return nil
}

// Start parses the sprint start date.
func (s *SeedSprint) Start() (time.Time, error) {
	t, err := time.Parse(seedDateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid sprint start date", goerr.V("start_date", s.StartDate))
	}
	return t, nil
}

// End parses the sprint end date.
func (s *SeedSprint) End() (time.Time, error) {
	t, err := time.Parse(seedDateLayout, s.EndDate)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid sprint end date", goerr.V("end_date", s.EndDate))
	}
	return t, nil
}

// Validate checks if the Seed is valid
func (s *Seed) Validate() error {
	names := make(map[string]bool)
	for _, e := range s.Epics {
		if err := e.Validate(); err != nil {
			return goerr.Wrap(err, "invalid epic seed")
		}
		if names[e.Name] {
			return goerr.New("duplicate epic name", goerr.V("name", e.Name))
		}
		names[e.Name] = true
	}

	sprintNames := make(map[string]bool)
	for _, sp := range s.Sprints {
		if err := sp.Validate(); err != nil {
			return goerr.Wrap(err, "invalid sprint seed")
		}
		if sprintNames[sp.Name] {
			return goerr.New("duplicate sprint name", goerr.V("name", sp.Name))
		}
		sprintNames[sp.Name] = true
	}

	return nil
}

// LoadSeed loads seed data from a TOML file
func LoadSeed(path string) (*Seed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML seed", goerr.V("path", path))
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V("path", path))
	}

	return &seed, nil
}
