package main

import (
	"os"

	"docemania/config"
	"docemania/helper"
	"docemania/infras/otel"
	"docemania/infras/postgres"
	userRepository "docemania/internal/domains/user/repository"
	"docemania/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func migration(cfg *config.Config, action, usage string) *cli.Command {
	return &cli.Command{
		Name:  action,
		Usage: usage,
		Action: func(*cli.Context) error {
			return helper.Runner(cfg, action)
		},
	}
}

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	app := &cli.App{
		Name:  "docemania-migrate",
		Usage: "manage the Doce Mania database schema",
		Commands: []*cli.Command{
			migration(cfg, helper.ActionUp, "apply every pending migration"),
			migration(cfg, helper.ActionStepUp, "apply the next migration"),
			migration(cfg, helper.ActionDown, "roll back the last migration"),
			migration(cfg, helper.ActionDrop, "roll back every migration"),
			{
				Name:  "seed-admin",
				Usage: "create the ADMIN_EMAIL account unless it exists",
				Action: func(ctx *cli.Context) error {
					db := postgres.New(cfg)
					defer db.Close()

					_, err := helper.SeedAdmin(ctx.Context, cfg, userRepository.New(db, otel.New(cfg)))

					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
