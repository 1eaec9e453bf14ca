package model

import "docemania/shared/model"

const (
	TableName  = "gallery_items"
	EntityName = "gallery_item"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImageURL    = "image_url"
	FieldCategory    = "category"

	// ObjectKeyPrefix namespaces gallery uploads inside the bucket.
	ObjectKeyPrefix = "gallery"
)

type GalleryItem struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	ImageURL    string `db:"image_url"`
	Category    string `db:"category"`
	model.Metadata
}
