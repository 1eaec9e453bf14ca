package resources

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path/filepath"

	"docemania/internal/domains/gallery/model/dto"
	"docemania/internal/resource"
	"docemania/shared/constant"
	"docemania/shared/notify"
	"docemania/shared/validator"
	"docemania/transport/http/client"

	"github.com/rs/zerolog/log"
)

const (
	pathGalleryItems  = "/v1/gallery-items"
	pathGalleryUpload = "/v1/gallery-items/upload"
	contentTypeBinary = "application/octet-stream"
)

type (
	galleryItem       = dto.GalleryItemResponse
	galleryItemCreate = dto.CreateGalleryItemRequest
	galleryItemUpdate = dto.UpdateGalleryItemRequest
)

type GalleryItems = resource.Client[galleryItem, galleryItemCreate, galleryItemUpdate]

var galleryMessages = resource.Messages{
	ListFailed:   notify.Destructive("Erro ao carregar galeria", "Não foi possível carregar os itens da galeria."),
	Created:      notify.Success("Item adicionado!", "O item foi adicionado à galeria com sucesso."),
	CreateFailed: notify.Destructive("Erro ao adicionar item", "Não foi possível adicionar o item à galeria."),
	Updated:      notify.Success("Item atualizado!", "O item foi atualizado com sucesso."),
	UpdateFailed: notify.Destructive("Erro ao atualizar item", "Não foi possível atualizar o item."),
	Deleted:      notify.Success("Item removido!", "O item foi removido da galeria."),
	DeleteFailed: notify.Destructive("Erro ao remover item", "Não foi possível remover o item."),
}

var uploadFailed = notify.Destructive("Erro ao fazer upload", "Não foi possível fazer o upload da imagem.")

// NewGalleryItems mirrors the gallery. A non-empty category narrows the list.
func NewGalleryItems(api *client.Client, notifier notify.Notifier, category string) *GalleryItems {
	store := &restStore[galleryItem, galleryItemCreate, galleryItemUpdate]{
		api:     api,
		path:    pathGalleryItems,
		listKey: "gallery_items",
	}

	if category != constant.Empty {
		store.query = url.Values{"category": {category}}
	}

	return resource.New[galleryItem, galleryItemCreate, galleryItemUpdate](store, resource.Kind[galleryItem, galleryItemCreate, galleryItemUpdate]{
		Name:          "gallery_item",
		ID:            func(item galleryItem) string { return item.ID },
		Messages:      galleryMessages,
		PrepareCreate: validated(validator.ValidateStruct[galleryItemCreate]),
		PrepareUpdate: validated(validator.ValidateStruct[galleryItemUpdate]),
	}, notifier)
}

// GalleryUploader sends images to the blob store through the backend.
type GalleryUploader struct {
	api      *client.Client
	notifier notify.Notifier
}

func NewGalleryUploader(api *client.Client, notifier notify.Notifier) *GalleryUploader {
	return &GalleryUploader{api: api, notifier: notifier}
}

// Upload stores the image and returns its public URL. On failure it returns an
// empty URL and the error after a single notification.
func (u *GalleryUploader) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	if contentType == constant.Empty {
		contentType = mime.TypeByExtension(filepath.Ext(fileName))
	}

	if contentType == constant.Empty {
		contentType = contentTypeBinary
	}

	var uploaded dto.UploadImageResponse

	err := u.api.Upload(ctx, pathGalleryUpload, map[string]client.File{
		constant.FormFile: {Name: fileName, ContentType: contentType, Body: body},
	}, &uploaded)
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to upload gallery image")
		u.notifier.Notify(uploadFailed)

		return constant.Empty, err
	}

	return uploaded.URL, nil
}
