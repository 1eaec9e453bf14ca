package model

import (
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"

	"docemania/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldName      = "name"
	FieldPhone     = "phone"
	FieldWhatsApp  = "whatsapp"
	FieldEventDate = "event_date"
	FieldCakeType  = "cake_type"
	FieldFlavor    = "flavor"
	FieldSize      = "size"
	FieldMessage   = "message"
	FieldStatus    = "status"

	whatsAppBaseURL = "https://wa.me/"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:   "Pendente",
	StatusConfirmed: "Confirmado",
	StatusCancelled: "Cancelado",
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]

	return ok
}

// Label is the Portuguese name shown to the shop staff. Unknown values read as pending.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return statusLabels[StatusPending]
}

type CakeType string

const (
	CakeTypeKidsBirthday  CakeType = "Aniversário Infantil"
	CakeTypeAdultBirthday CakeType = "Aniversário Adulto"
	CakeTypeWedding       CakeType = "Casamento"
	CakeTypeBabyShower    CakeType = "Chá de Bebê"
	CakeTypeBridalShower  CakeType = "Chá de Panela"
	CakeTypeGraduation    CakeType = "Formatura"
	CakeTypeCorporate     CakeType = "Evento Corporativo"
	CakeTypeThemed        CakeType = "Temático"
	CakeTypeOther         CakeType = "Outro"
)

var CakeTypes = []CakeType{
	CakeTypeKidsBirthday,
	CakeTypeAdultBirthday,
	CakeTypeWedding,
	CakeTypeBabyShower,
	CakeTypeBridalShower,
	CakeTypeGraduation,
	CakeTypeCorporate,
	CakeTypeThemed,
	CakeTypeOther,
}

func (c CakeType) IsValid() bool {
	return slices.Contains(CakeTypes, c)
}

type Booking struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	WhatsApp  string    `db:"whatsapp"`
	EventDate time.Time `db:"event_date"`
	CakeType  CakeType  `db:"cake_type"`
	Flavor    string    `db:"flavor"`
	Size      string    `db:"size"`
	Message   string    `db:"message"`
	Status    Status    `db:"status"`
	model.Metadata
}

// ContactNumber prefers the WhatsApp number and falls back to the phone.
func (b *Booking) ContactNumber() string {
	if strings.TrimSpace(b.WhatsApp) != "" {
		return b.WhatsApp
	}

	return b.Phone
}

// WhatsAppGreeting is the follow-up message sent to the customer.
func (b *Booking) WhatsAppGreeting() string {
	return "Olá " + b.Name + "! Recebemos seu pedido de bolo e entraremos em contato para finalizar os detalhes. Obrigado!"
}

// WhatsAppLink returns a wa.me deep link for the contact number, prefixed with
// countryCode unless the number already carries it. It is empty when the number
// has no digits.
func (b *Booking) WhatsAppLink(countryCode string) string {
	digits := onlyDigits(b.ContactNumber())
	if digits == "" {
		return ""
	}

	countryCode = onlyDigits(countryCode)
	if countryCode != "" && !(strings.HasPrefix(digits, countryCode) && len(digits) > 11) {
		digits = countryCode + digits
	}

	text := strings.ReplaceAll(url.QueryEscape(b.WhatsAppGreeting()), "+", "%20")

	return whatsAppBaseURL + digits + "?text=" + text
}

func onlyDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}

		return -1
	}, value)
}
