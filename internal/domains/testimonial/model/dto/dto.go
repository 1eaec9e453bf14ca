package dto

import (
	"strings"
	"time"

	"docemania/internal/domains/testimonial/model"
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
	model.FieldRating,
	model.FieldDate,
}

type CreateTestimonialRequest struct {
	Name   string       `json:"name"   validate:"required,max=100"`
	Text   string       `json:"text"   validate:"required,max=1000"`
	Rating model.Rating `json:"rating" validate:"required,enum"`
	Date   string       `json:"date"   validate:"omitempty,datetime=2006-01-02"`
}

// ToModel builds the row to insert. A missing or unparsable date means today.
func (c *CreateTestimonialRequest) ToModel(user string) model.Testimonial {
	now := timezone.Now()

	date := today(now)
	if c.Date != constant.Empty {
		if parsed, err := timezone.Parse(constant.DayFormat, c.Date); err == nil {
			date = parsed
		}
	}

	return model.Testimonial{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(c.Name),
		Text:     strings.TrimSpace(c.Text),
		Rating:   c.Rating,
		Date:     date,
		Metadata: gModel.NewMetadata(now, user),
	}
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// UpdateTestimonialRequest is a partial update; the date is sent as YYYY-MM-DD.
type UpdateTestimonialRequest struct {
	Name   *string       `db:"name"   json:"name,omitempty"   validate:"omitnil,min=1,max=100"`
	Text   *string       `db:"text"   json:"text,omitempty"   validate:"omitnil,min=1,max=1000"`
	Rating *model.Rating `db:"rating" json:"rating,omitempty" validate:"omitnil,enum"`
	Date   *string       `db:"date"   json:"date,omitempty"   validate:"omitnil,datetime=2006-01-02"`
}

type TestimonialResponse struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Text   string       `json:"text"`
	Rating model.Rating `json:"rating"`
	Date   string       `json:"date"`
	gDto.Metadata
}

func (r *TestimonialResponse) FromModel(model model.Testimonial) {
	r.ID = model.ID
	r.Name = model.Name
	r.Text = model.Text
	r.Rating = model.Rating
	r.Date = model.Date.Format(constant.DayFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetTestimonialsResponse struct {
	Testimonials []TestimonialResponse `json:"testimonials"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetTestimonialsResponse) FromModels(models []model.Testimonial, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Testimonials = make([]TestimonialResponse, len(models))
	for i, m := range models {
		r.Testimonials[i].FromModel(m)
	}
}
