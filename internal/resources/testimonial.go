package resources

import (
	"docemania/internal/domains/testimonial/model/dto"
	"docemania/internal/resource"
	"docemania/shared/notify"
	"docemania/shared/validator"
	"docemania/transport/http/client"
)

const pathTestimonials = "/v1/testimonials"

type (
	testimonial       = dto.TestimonialResponse
	testimonialCreate = dto.CreateTestimonialRequest
	testimonialUpdate = dto.UpdateTestimonialRequest
)

type Testimonials = resource.Client[testimonial, testimonialCreate, testimonialUpdate]

var testimonialMessages = resource.Messages{
	ListFailed:   notify.Destructive("Erro ao carregar depoimentos", "Não foi possível carregar os depoimentos."),
	Created:      notify.Success("Depoimento adicionado!", "O depoimento foi adicionado com sucesso."),
	CreateFailed: notify.Destructive("Erro ao adicionar depoimento", "Não foi possível adicionar o depoimento."),
	Updated:      notify.Success("Depoimento atualizado!", "O depoimento foi atualizado com sucesso."),
	UpdateFailed: notify.Destructive("Erro ao atualizar depoimento", "Não foi possível atualizar o depoimento."),
	Deleted:      notify.Success("Depoimento removido!", "O depoimento foi removido com sucesso."),
	DeleteFailed: notify.Destructive("Erro ao remover depoimento", "Não foi possível remover o depoimento."),
}

// NewTestimonials rejects ratings outside 1..5 before anything is sent.
func NewTestimonials(api *client.Client, notifier notify.Notifier) *Testimonials {
	store := &restStore[testimonial, testimonialCreate, testimonialUpdate]{
		api:     api,
		path:    pathTestimonials,
		listKey: "testimonials",
	}

	return resource.New[testimonial, testimonialCreate, testimonialUpdate](store, resource.Kind[testimonial, testimonialCreate, testimonialUpdate]{
		Name:          "testimonial",
		ID:            func(t testimonial) string { return t.ID },
		Messages:      testimonialMessages,
		PrepareCreate: validated(validator.ValidateStruct[testimonialCreate]),
		PrepareUpdate: validated(validator.ValidateStruct[testimonialUpdate]),
	}, notifier)
}
