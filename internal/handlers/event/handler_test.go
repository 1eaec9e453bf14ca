package event_test

import (
	"context"
	"encoding/json"
	"testing"

	"docemania/config"
	"docemania/infras/otel/mocks"
	"docemania/internal/domains/booking/model"
	"docemania/internal/domains/booking/model/dto"
	"docemania/internal/handlers/event"
	"docemania/shared/notify"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() (event.Handler, *notify.Recorder) {
	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingCreated = "bookings.created"

	recorder := &notify.Recorder{}

	return event.New(cfg, mocks.NewOtel(), recorder), recorder
}

func message(t *testing.T, value any) kafkaGo.Message {
	t.Helper()

	payload, err := json.Marshal(value)
	require.NoError(t, err)

	return kafkaGo.Message{Topic: "bookings.created", Key: []byte("b-1"), Value: payload}
}

func TestSubscriptions(t *testing.T) {
	handler, _ := newHandler()

	subscriptions := handler.Subscriptions()
	require.Len(t, subscriptions, 1)
	assert.Equal(t, "bookings.created", subscriptions[0].Topic)
	assert.NotNil(t, subscriptions[0].Handler)
}

func TestBookingCreated(t *testing.T) {
	t.Run("notifies with the whatsapp link", func(t *testing.T) {
		handler, recorder := newHandler()

		err := handler.BookingCreated(context.Background(), message(t, dto.BookingCreatedEvent{
			ID:           "b-1",
			Name:         "Maria",
			Contact:      "11988887777",
			EventDate:    "2030-05-10",
			CakeType:     model.CakeTypeWedding,
			WhatsAppLink: "https://wa.me/5511988887777?text=Ol%C3%A1",
		}))
		require.NoError(t, err)

		last, ok := recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notify.VariantSuccess, last.Variant)
		assert.Contains(t, last.Description, "Maria")
		assert.Contains(t, last.Description, "Casamento")
		assert.Contains(t, last.Description, "https://wa.me/5511988887777")
	})

	t.Run("acknowledges events without contact", func(t *testing.T) {
		handler, recorder := newHandler()

		err := handler.BookingCreated(context.Background(), message(t, dto.BookingCreatedEvent{ID: "b-2", Name: "Ana"}))
		require.NoError(t, err)
		assert.Empty(t, recorder.Notifications())
	})

	t.Run("drops malformed payloads", func(t *testing.T) {
		handler, recorder := newHandler()

		err := handler.BookingCreated(context.Background(), kafkaGo.Message{Value: []byte("{not json")})
		require.NoError(t, err)
		assert.Empty(t, recorder.Notifications())
	})
}
