package event_test

import (
	"context"
	"errors"
	"testing"

	"docemania/config"
	kafkaMocks "docemania/infras/kafka/mocks"
	"docemania/infras/otel/mocks"
	eventHandler "docemania/internal/handlers/event"
	"docemania/shared/notify"
	"docemania/transport/event"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newConsumer(t *testing.T, brokers ...string) (*event.Consumer, *kafkaMocks.MockClient) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.Brokers = brokers
	cfg.Kafka.ConsumerGroup = "docemania"
	cfg.Kafka.Topics.BookingCreated = "bookings.created"

	client := kafkaMocks.NewMockClient(ctrl)
	handler := eventHandler.New(cfg, mocks.NewOtel(), &notify.Recorder{})

	return event.New(cfg, client, mocks.NewOtel(), handler), client
}

func TestConsumer_Run(t *testing.T) {
	t.Run("consumes every subscription and closes the client", func(t *testing.T) {
		consumer, client := newConsumer(t, "localhost:9092")

		client.EXPECT().Consume(gomock.Any(), "docemania", "bookings.created", gomock.Any()).Return(nil)
		client.EXPECT().Close().Return(nil)

		assert.NoError(t, consumer.Run(context.Background()))
	})

	t.Run("returns the consumer error", func(t *testing.T) {
		consumer, client := newConsumer(t, "localhost:9092")

		client.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		client.EXPECT().Close().Return(nil)

		assert.EqualError(t, consumer.Run(context.Background()), "broker down")
	})

	t.Run("requires brokers", func(t *testing.T) {
		consumer, _ := newConsumer(t)

		assert.ErrorIs(t, consumer.Run(context.Background()), event.ErrNoBrokers)
	})
}
