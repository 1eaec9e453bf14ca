package handler

import (
	"net/http"
	"sync"

	"docemania/config"
	"docemania/di"
	"docemania/shared/logger"
	transport "docemania/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)
		logger.SetOutput(cfg, nil)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
