package event

import (
	"context"
	"errors"
	"fmt"

	"docemania/config"
	"docemania/infras/kafka"
	"docemania/infras/otel"
	"docemania/internal/domains/booking/model/dto"
	"docemania/shared/constant"
	"docemania/shared/notify"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	titleBookingReceived = "Novo agendamento!"
)

var ErrMissingContact = errors.New("booking event has no contact number")

// Subscription binds a topic to the handler that processes its messages.
type Subscription struct {
	Topic   string
	Handler kafka.Handler
}

type Handler struct {
	config   *config.Config
	otel     otel.Otel
	notifier notify.Notifier
}

func New(config *config.Config, otel otel.Otel, notifier notify.Notifier) Handler {
	return Handler{
		config:   config,
		otel:     otel,
		notifier: notifier,
	}
}

func (h Handler) Subscriptions() []Subscription {
	return []Subscription{
		{Topic: h.config.Kafka.Topics.BookingCreated, Handler: h.BookingCreated},
	}
}

// BookingCreated tells the staff a booking arrived and hands over the WhatsApp
// link used to follow up with the customer. Events without a usable contact are
// logged and acknowledged so they do not block the partition.
func (h Handler) BookingCreated(ctx context.Context, msg kafkaGo.Message) (err error) {
	_, scope := h.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingCreated")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.DecodeKafkaMessage[dto.BookingCreatedEvent](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Dropping malformed booking event")

		return nil
	}

	scope.SetAttribute("booking.id", event.ID)

	if event.WhatsAppLink == constant.Empty {
		log.Warn().Err(ErrMissingContact).Str("booking_id", event.ID).Msg("Booking has no contact number")

		return nil
	}

	h.notifier.Notify(notify.Success(
		titleBookingReceived,
		fmt.Sprintf("%s pediu %s para %s. Responda em %s", event.Name, event.CakeType, event.EventDate, event.WhatsAppLink),
	))

	log.Info().
		Str("booking_id", event.ID).
		Str("contact", event.Contact).
		Str("whatsapp_link", event.WhatsAppLink).
		Msg("Booking follow-up ready")

	return nil
}
