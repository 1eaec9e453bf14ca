package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"docemania/infras/otel"
	"docemania/infras/postgres"
	"docemania/internal/domains/gallery/model"
	gDto "docemania/shared/dto"
	gRepo "docemania/shared/repository"
)

type GalleryItem interface {
	Insert(ctx context.Context, model model.GalleryItem) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.GalleryItem, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.GalleryItem, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.GalleryItem]
}

func New(db *postgres.Connection, otel otel.Otel) GalleryItem {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.GalleryItem](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
