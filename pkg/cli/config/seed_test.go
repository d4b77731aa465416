package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syafiqkay/taskdeck/pkg/cli/config"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadSeed(t *testing.T) {
	t.Run("loads a valid seed file", func(t *testing.T) {
		path := writeSeedFile(t, `
[[epic]]
name = "Reliability"
description = "error budget work"

[[epic]]
name = "Billing"

[[sprint]]
name = "Sprint 1"
description = "first iteration"
start_date = "2025-01-01"
end_date = "2025-01-14"
`)

		seed, err := config.LoadSeed(path)
		gt.NoError(t, err).Required()

		gt.Array(t, seed.Epics).Length(2)
		gt.Value(t, seed.Epics[0].Name).Equal("Reliability")

		gt.Array(t, seed.Sprints).Length(1)
		gt.Value(t, seed.Sprints[0].Name).Equal("Sprint 1")

		start, err := seed.Sprints[0].Start()
		gt.NoError(t, err).Required()
		end, err := seed.Sprints[0].End()
		gt.NoError(t, err).Required()
		gt.Bool(t, end.After(start)).True()
	})

	t.Run("rejects a sprint whose window does not move forward", func(t *testing.T) {
		path := writeSeedFile(t, `
[[sprint]]
name = "Backwards"
start_date = "2025-01-14"
end_date = "2025-01-01"
`)

		_, err := config.LoadSeed(path)
		gt.Error(t, err)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		path := writeSeedFile(t, `
[[sprint]]
name = "Bad dates"
start_date = "01/01/2025"
end_date = "2025-01-14"
`)

		_, err := config.LoadSeed(path)
		gt.Error(t, err)
	})

	t.Run("rejects duplicate epic names", func(t *testing.T) {
		path := writeSeedFile(t, `
[[epic]]
name = "Twice"

[[epic]]
name = "Twice"
`)

		_, err := config.LoadSeed(path)
		gt.Error(t, err)
	})

	t.Run("rejects an epic without a name", func(t *testing.T) {
		path := writeSeedFile(t, `
[[epic]]
description = "anonymous"
`)

		_, err := config.LoadSeed(path)
		gt.Error(t, err)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := config.LoadSeed(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err)
	})

	t.Run("fails on invalid TOML", func(t *testing.T) {
		path := writeSeedFile(t, `not [valid toml`)

		_, err := config.LoadSeed(path)
		gt.Error(t, err)
	})
}
