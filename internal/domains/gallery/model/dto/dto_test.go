package dto_test

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"docemania/internal/domains/gallery/model"
	"docemania/internal/domains/gallery/model/dto"
	gModel "docemania/shared/model"
	"docemania/shared/timezone"
	"docemania/shared/validator"

	"github.com/stretchr/testify/assert"
)

func TestCreateGalleryItemRequest_ToModel(t *testing.T) {
	req := dto.CreateGalleryItemRequest{
		Title:       "  Bolo de Casamento  ",
		Description: "Três andares com flores de açúcar",
		ImageURL:    "https://cdn.docemania.com/gallery/1700000000.jpg",
		Category:    "Casamento",
	}

	userID := "test-user-id"
	item := req.ToModel(userID)

	assert.NotEmpty(t, item.ID, "expected ID to be generated")
	assert.Equal(t, "Bolo de Casamento", item.Title)
	assert.Equal(t, req.Description, item.Description)
	assert.Equal(t, req.ImageURL, item.ImageURL)
	assert.Equal(t, req.Category, item.Category)
	assert.Equal(t, userID, item.CreatedBy)
	assert.Equal(t, userID, item.UpdatedBy)
	assert.False(t, item.CreatedAt.IsZero(), "expected CreatedAt to be set")
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestCreateGalleryItemRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateGalleryItemRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: dto.CreateGalleryItemRequest{
				Title:    "Naked Cake",
				ImageURL: "https://cdn.docemania.com/gallery/1.jpg",
				Category: "Aniversário",
			},
		},
		{
			name:    "missing image",
			req:     dto.CreateGalleryItemRequest{Title: "Naked Cake", Category: "Aniversário"},
			wantErr: true,
		},
		{
			name: "short title",
			req: dto.CreateGalleryItemRequest{
				Title:    "Bo",
				ImageURL: "https://cdn.docemania.com/gallery/1.jpg",
				Category: "Aniversário",
			},
			wantErr: true,
		},
		{
			name: "missing category",
			req: dto.CreateGalleryItemRequest{
				Title:    "Naked Cake",
				ImageURL: "https://cdn.docemania.com/gallery/1.jpg",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateGalleryItemRequest_Validation(t *testing.T) {
	short := "ab"
	title := "Bolo Floresta Negra"
	badURL := "not a url"

	assert.NoError(t, validator.ValidateStruct(&dto.UpdateGalleryItemRequest{}))
	assert.NoError(t, validator.ValidateStruct(&dto.UpdateGalleryItemRequest{Title: &title}))
	assert.Error(t, validator.ValidateStruct(&dto.UpdateGalleryItemRequest{Title: &short}))
	assert.Error(t, validator.ValidateStruct(&dto.UpdateGalleryItemRequest{ImageURL: &badURL}))
}

func TestUploadImageRequest_Validation(t *testing.T) {
	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "bolo.png",
			Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
			Size:     size,
		}
	}

	assert.NoError(t, validator.ValidateStruct(&dto.UploadImageRequest{Image: header("image/png", 1024)}))
	assert.Error(t, validator.ValidateStruct(&dto.UploadImageRequest{Image: header("application/pdf", 1024)}))
	assert.Error(t, validator.ValidateStruct(&dto.UploadImageRequest{Image: header("image/jpeg", 11<<20)}))
	assert.Error(t, validator.ValidateStruct(&dto.UploadImageRequest{}))
}

func TestGalleryItemResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	item := model.GalleryItem{
		ID:          "test-id",
		Title:       "Bolo de Pote",
		Description: "Brigadeiro",
		ImageURL:    "https://cdn.docemania.com/gallery/1.jpg",
		Category:    "Doces",
		Metadata:    gModel.NewMetadata(now, "test-user"),
	}

	var response dto.GalleryItemResponse
	response.FromModel(item)

	assert.Equal(t, item.ID, response.ID)
	assert.Equal(t, item.Title, response.Title)
	assert.Equal(t, item.Description, response.Description)
	assert.Equal(t, item.ImageURL, response.ImageURL)
	assert.Equal(t, item.Category, response.Category)
	assert.Equal(t, item.CreatedBy, response.CreatedBy)
	assert.Equal(t, item.UpdatedBy, response.UpdatedBy)
	assert.NotEmpty(t, response.CreatedAt)
}

func TestGetGalleryItemsResponse_FromModels(t *testing.T) {
	now := timezone.Now()
	items := []model.GalleryItem{
		{ID: "test-id-1", Title: "Bolo 1", Metadata: gModel.NewMetadata(now, "test-user")},
		{ID: "test-id-2", Title: "Bolo 2", Metadata: gModel.NewMetadata(now, "test-user")},
	}

	var response dto.GetGalleryItemsResponse
	response.FromModels(items, 25, 10)

	assert.Len(t, response.GalleryItems, 2)
	assert.Equal(t, 25, response.TotalData)
	assert.Equal(t, 3, response.TotalPage)
	assert.Equal(t, "test-id-1", response.GalleryItems[0].ID)
	assert.Equal(t, "test-id-2", response.GalleryItems[1].ID)
}

func TestGetGalleryItemsResponse_FromModelsEmpty(t *testing.T) {
	var response dto.GetGalleryItemsResponse
	response.FromModels(nil, 0, 10)

	assert.NotNil(t, response.GalleryItems)
	assert.Empty(t, response.GalleryItems)
	assert.Equal(t, 1, response.TotalPage)
}
