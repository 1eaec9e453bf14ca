package resources

import (
	"docemania/internal/domains/booking/model"
	"docemania/internal/domains/booking/model/dto"
	"docemania/internal/resource"
	"docemania/shared/notify"
	"docemania/shared/validator"
	"docemania/transport/http/client"
)

const pathBookings = "/v1/bookings"

type (
	booking       = dto.BookingResponse
	bookingCreate = dto.CreateBookingRequest
	bookingUpdate = dto.UpdateBookingRequest
)

type Bookings = resource.Client[booking, bookingCreate, bookingUpdate]

var bookingMessages = resource.Messages{
	ListFailed:   notify.Destructive("Erro ao carregar agendamentos", "Não foi possível carregar os agendamentos."),
	Created:      notify.Success("Agendamento criado!", "Seu pedido foi registrado com sucesso."),
	CreateFailed: notify.Destructive("Erro ao criar agendamento", "Não foi possível registrar seu pedido."),
	Updated:      notify.Success("Agendamento atualizado!", "O agendamento foi atualizado com sucesso."),
	UpdateFailed: notify.Destructive("Erro ao atualizar agendamento", "Não foi possível atualizar o agendamento."),
	Deleted:      notify.Success("Agendamento excluído", "O agendamento foi removido com sucesso."),
	DeleteFailed: notify.Destructive("Erro ao excluir", "Não foi possível excluir o agendamento."),
}

// prepareBooking fills the pending status before validating a new request.
func prepareBooking(fields bookingCreate) (bookingCreate, error) {
	if fields.Status == "" {
		fields.Status = model.StatusPending
	}

	if err := validator.ValidateStruct(&fields); err != nil {
		return fields, err
	}

	return fields, nil
}

func NewBookings(api *client.Client, notifier notify.Notifier) *Bookings {
	store := &restStore[booking, bookingCreate, bookingUpdate]{
		api:     api,
		path:    pathBookings,
		listKey: "bookings",
	}

	return resource.New[booking, bookingCreate, bookingUpdate](store, resource.Kind[booking, bookingCreate, bookingUpdate]{
		Name:          "booking",
		ID:            func(b booking) string { return b.ID },
		Messages:      bookingMessages,
		PrepareCreate: prepareBooking,
		PrepareUpdate: validated(validator.ValidateStruct[bookingUpdate]),
	}, notifier)
}
