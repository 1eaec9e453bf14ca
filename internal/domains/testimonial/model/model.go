package model

import (
	"time"

	"docemania/shared/model"
)

const (
	TableName  = "testimonials"
	EntityName = "testimonial"

	FieldID     = "id"
	FieldName   = "name"
	FieldText   = "text"
	FieldRating = "rating"
	FieldDate   = "date"

	MinRating Rating = 1
	MaxRating Rating = 5
)

// Rating is a star score from MinRating to MaxRating.
type Rating int

func (r Rating) IsValid() bool {
	return r >= MinRating && r <= MaxRating
}

type Testimonial struct {
	ID     string    `db:"id"`
	Name   string    `db:"name"`
	Text   string    `db:"text"`
	Rating Rating    `db:"rating"`
	Date   time.Time `db:"date"`
	model.Metadata
}
