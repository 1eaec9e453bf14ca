package event

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"docemania/config"
	"docemania/infras/kafka"
	"docemania/infras/otel"
	"docemania/internal/handlers/event"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNoBrokers = errors.New("no kafka brokers configured")

// Consumer runs one Kafka reader per subscription until the process is signalled.
type Consumer struct {
	Config  *config.Config
	Kafka   kafka.Client
	Otel    otel.Otel
	Handler event.Handler
}

func New(cfg *config.Config, client kafka.Client, otel otel.Otel, handler event.Handler) *Consumer {
	return &Consumer{
		Config:  cfg,
		Kafka:   client,
		Otel:    otel,
		Handler: handler,
	}
}

func (c *Consumer) Serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Event consumer stopped")
	}

	log.Info().Msg("Event consumer shut down.")
}

func (c *Consumer) Run(ctx context.Context) error {
	if len(c.Config.Kafka.Brokers) == 0 {
		return ErrNoBrokers
	}

	defer func() {
		if err := c.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka client")
		}

		if err := c.Otel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	group, ctx := errgroup.WithContext(ctx)

	for _, subscription := range c.Handler.Subscriptions() {
		log.Info().Str("topic", subscription.Topic).Msg("Subscribing to topic.")

		group.Go(func() error {
			return c.Kafka.Consume(ctx, c.Config.Kafka.ConsumerGroup, subscription.Topic, subscription.Handler)
		})
	}

	return group.Wait()
}
