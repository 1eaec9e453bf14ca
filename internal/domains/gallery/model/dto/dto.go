package dto

import (
	"mime/multipart"
	"strings"

	"docemania/internal/domains/gallery/model"
	"docemania/shared"
	gDto "docemania/shared/dto"
	gModel "docemania/shared/model"
	"docemania/shared/timezone"

	"github.com/google/uuid"
)

// SortableFields lists the columns a gallery listing may be ordered by.
var SortableFields = []string{
	"created_at",
	"updated_at",
	model.FieldTitle,
	model.FieldCategory,
}

type CreateGalleryItemRequest struct {
	Title       string `json:"title"       validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"image_url"   validate:"required,url"`
	Category    string `json:"category"    validate:"required,max=50"`
}

func (c *CreateGalleryItemRequest) ToModel(user string) model.GalleryItem {
	return model.GalleryItem{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Category:    strings.TrimSpace(c.Category),
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdateGalleryItemRequest is a partial update. Nil fields are left untouched.
type UpdateGalleryItemRequest struct {
	Title       *string `db:"title"       json:"title,omitempty"       validate:"omitnil,min=3,max=100"`
	Description *string `db:"description" json:"description,omitempty" validate:"omitnil,max=500"`
	ImageURL    *string `db:"image_url"   json:"image_url,omitempty"   validate:"omitnil,url"`
	Category    *string `db:"category"    json:"category,omitempty"    validate:"omitnil,min=1,max=50"`
}

type GalleryItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	gDto.Metadata
}

func (r *GalleryItemResponse) FromModel(model model.GalleryItem) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.ImageURL = model.ImageURL
	r.Category = model.Category
	r.Metadata.FromModel(model.Metadata)
}

type GetGalleryItemsResponse struct {
	GalleryItems []GalleryItemResponse `json:"gallery_items"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetGalleryItemsResponse) FromModels(models []model.GalleryItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.GalleryItems = make([]GalleryItemResponse, len(models))
	for i, m := range models {
		r.GalleryItems[i].FromModel(m)
	}
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image"  swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=10"`
	ImageFile multipart.File        `json:"-"`
}

type UploadImageResponse struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
}

func (r *UploadImageResponse) FromModel(url, objectKey, fileName string) {
	r.URL = url
	r.ObjectKey = objectKey
	r.FileName = fileName
}
