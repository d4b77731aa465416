package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/cli/config"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"github.com/syafiqkay/taskdeck/pkg/utils/errutil"
	"github.com/syafiqkay/taskdeck/pkg/utils/logging"
	"github.com/syafiqkay/taskdeck/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var seedPath string
	var creator string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Path to a TOML seed file with initial epics and sprints",
			Sources:     cli.EnvVars("TASKDECK_SEED"),
			Destination: &seedPath,
		},
		&cli.StringFlag{
			Name:        "creator",
			Usage:       "User ID recorded as creator of seeded records",
			Value:       "system",
			Sources:     cli.EnvVars("TASKDECK_SEED_CREATOR"),
			Destination: &creator,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Prepare the repository backend and apply optional seed data",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			if seedPath == "" {
				logger.Info("No seed file given, nothing to apply")
				return nil
			}

			seed, err := config.LoadSeed(seedPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load seed file")
			}

			if err := applySeed(ctx, repo, seed, types.UserID(creator)); err != nil {
				return errutil.Handle(ctx, err, "failed to apply seed")
			}

			logger.Info("Seed applied",
				"epics", len(seed.Epics),
				"sprints", len(seed.Sprints))
			return nil
		},
	}
}

func applySeed(ctx context.Context, repo interfaces.Repository, seed *config.Seed, creator types.UserID) error {
	for _, e := range seed.Epics {
		created, err := repo.Epic().Create(ctx, &model.Epic{
			Name:        e.Name,
			Description: e.Description,
			CreatorID:   creator,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create epic", goerr.V("name", e.Name))
		}
		logging.Default().Info("Created epic", "id", created.ID, "name", created.Name)
	}

	for _, sp := range seed.Sprints {
		start, err := sp.Start()
		if err != nil {
			return err
		}
		end, err := sp.End()
		if err != nil {
			return err
		}

		created, err := repo.Sprint().Create(ctx, &model.Sprint{
			Name:        sp.Name,
			Description: sp.Description,
			StartDate:   start,
			EndDate:     end,
			CreatorID:   creator,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create sprint", goerr.V("name", sp.Name))
		}
		logging.Default().Info("Created sprint", "id", created.ID, "name", created.Name)
	}

	return nil
}
