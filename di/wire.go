//go:build wireinject
// +build wireinject

package di

import (
	"docemania/config"
	"docemania/infras/jwt"
	"docemania/infras/kafka"
	"docemania/infras/otel"
	"docemania/infras/postgres"
	"docemania/infras/redis"
	"docemania/infras/s3"
	"docemania/permissions"
	"docemania/shared/cache"
	"docemania/shared/notify"
	"docemania/transport/event"
	"docemania/transport/http"
	"docemania/transport/http/middleware"
	"docemania/transport/http/router"

	authService "docemania/internal/domains/auth/service"
	bookingRepository "docemania/internal/domains/booking/repository"
	bookingService "docemania/internal/domains/booking/service"
	galleryRepository "docemania/internal/domains/gallery/repository"
	galleryService "docemania/internal/domains/gallery/service"
	testimonialRepository "docemania/internal/domains/testimonial/repository"
	testimonialService "docemania/internal/domains/testimonial/service"
	userRepository "docemania/internal/domains/user/repository"
	authHandler "docemania/internal/handlers/auth"
	bookingHandler "docemania/internal/handlers/booking"
	eventHandler "docemania/internal/handlers/event"
	galleryHandler "docemania/internal/handlers/gallery"
	testimonialHandler "docemania/internal/handlers/testimonial"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var galleryDomain = wire.NewSet(
	galleryRepository.New,
	galleryService.New,
)

var testimonialDomain = wire.NewSet(
	testimonialRepository.New,
	testimonialService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	authDomain,
	galleryDomain,
	testimonialDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	galleryHandler.New,
	testimonialHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeConsumer() *event.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		notify.NewLogNotifier,
		eventHandler.New,
		event.New,
	)

	return &event.Consumer{}
}
