package main

import (
	"docemania/config"
	"docemania/di"
	"docemania/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.SetOutput(cfg, nil)

	consumer := di.InitializeConsumer()
	consumer.Serve()
}
