package main

import (
	"docemania/config"
	"docemania/di"
	"docemania/helper"
	"docemania/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Doce Mania API
// @version					1.0
// @description				Gallery, testimonials and booking requests for the Doce Mania cake shop.
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetOutput(cfg, nil)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
