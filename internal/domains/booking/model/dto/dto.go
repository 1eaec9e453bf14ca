package dto

import (
	"strings"

	"docemania/internal/domains/booking/model"
	"docemania/shared"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	gModel "docemania/shared/model"
	"docemania/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = []string{
	"created_at",
	"updated_at",
	model.FieldName,
	model.FieldEventDate,
	model.FieldStatus,
}

type CreateBookingRequest struct {
	Name      string         `json:"name"       validate:"required,max=100"`
	Phone     string         `json:"phone"      validate:"required,max=20"`
	WhatsApp  string         `json:"whatsapp"   validate:"omitempty,max=20"`
	EventDate string         `json:"event_date" validate:"required,datetime=2006-01-02,notpast"`
	CakeType  model.CakeType `json:"cake_type"  validate:"required,enum"`
	Flavor    string         `json:"flavor"     validate:"omitempty,max=100"`
	Size      string         `json:"size"       validate:"omitempty,max=50"`
	Message   string         `json:"message"    validate:"omitempty,max=1000"`
	Status    model.Status   `json:"status"     validate:"omitempty,enum"`
}

// ToModel builds the row to insert. The status defaults to pending.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	eventDate, err := timezone.Parse(constant.DayFormat, c.EventDate)
	if err != nil {
		return model.Booking{}, err
	}

	status := model.StatusPending
	if c.Status != "" {
		status = c.Status
	}

	return model.Booking{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(c.Name),
		Phone:     strings.TrimSpace(c.Phone),
		WhatsApp:  strings.TrimSpace(c.WhatsApp),
		EventDate: eventDate,
		CakeType:  c.CakeType,
		Flavor:    strings.TrimSpace(c.Flavor),
		Size:      strings.TrimSpace(c.Size),
		Message:   strings.TrimSpace(c.Message),
		Status:    status,
		Metadata:  gModel.NewMetadata(timezone.Now(), user),
	}, nil
}

// UpdateBookingRequest is a partial update. Admins may move a booking to any status.
type UpdateBookingRequest struct {
	Name      *string         `db:"name"       json:"name,omitempty"       validate:"omitnil,min=1,max=100"`
	Phone     *string         `db:"phone"      json:"phone,omitempty"      validate:"omitnil,min=1,max=20"`
	WhatsApp  *string         `db:"whatsapp"   json:"whatsapp,omitempty"   validate:"omitnil,max=20"`
	EventDate *string         `db:"event_date" json:"event_date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	CakeType  *model.CakeType `db:"cake_type"  json:"cake_type,omitempty"  validate:"omitnil,enum"`
	Flavor    *string         `db:"flavor"     json:"flavor,omitempty"     validate:"omitnil,max=100"`
	Size      *string         `db:"size"       json:"size,omitempty"       validate:"omitnil,max=50"`
	Message   *string         `db:"message"    json:"message,omitempty"    validate:"omitnil,max=1000"`
	Status    *model.Status   `db:"status"     json:"status,omitempty"     validate:"omitnil,enum"`
}

type BookingResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	WhatsApp     string         `json:"whatsapp"`
	EventDate    string         `json:"event_date"`
	CakeType     model.CakeType `json:"cake_type"`
	Flavor       string         `json:"flavor"`
	Size         string         `json:"size"`
	Message      string         `json:"message"`
	Status       model.Status   `json:"status"`
	StatusLabel  string         `json:"status_label"`
	WhatsAppLink string         `json:"whatsapp_link,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Name = model.Name
	r.Phone = model.Phone
	r.WhatsApp = model.WhatsApp
	r.EventDate = model.EventDate.Format(constant.DayFormat)
	r.CakeType = model.CakeType
	r.Flavor = model.Flavor
	r.Size = model.Size
	r.Message = model.Message
	r.Status = model.Status
	r.StatusLabel = model.Status.Label()
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingCreatedEvent is published after a booking is stored.
type BookingCreatedEvent struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Contact      string         `json:"contact"`
	EventDate    string         `json:"event_date"`
	CakeType     model.CakeType `json:"cake_type"`
	WhatsAppLink string         `json:"whatsapp_link"`
	CreatedAt    string         `json:"created_at"`
}

func (e *BookingCreatedEvent) FromModel(booking model.Booking, countryCode string) {
	e.ID = booking.ID
	e.Name = booking.Name
	e.Contact = booking.ContactNumber()
	e.EventDate = booking.EventDate.Format(constant.DayFormat)
	e.CakeType = booking.CakeType
	e.WhatsAppLink = booking.WhatsAppLink(countryCode)
	e.CreatedAt = timezone.Format(booking.CreatedAt, constant.DateFormat)
}
