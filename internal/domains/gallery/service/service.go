package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"docemania/config"
	"docemania/infras/metrics"
	"docemania/infras/otel"
	"docemania/infras/s3"
	"docemania/internal/domains/gallery/model"
	"docemania/internal/domains/gallery/model/dto"
	"docemania/internal/domains/gallery/repository"
	"docemania/shared"
	"docemania/shared/cache"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	"docemania/shared/failure"
	"docemania/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetGalleryItem    = "gallery_item:get"
	cacheGetAllGalleryItem = "gallery_item:get_all"
	cacheCountGalleryItem  = "gallery_item:count"

	errGalleryItemNotFound = "gallery item not found"
	errUnknownImage        = "image_url must point to an uploaded gallery image"
)

type GalleryItem interface {
	Create(ctx context.Context, req dto.CreateGalleryItemRequest) (dto.GalleryItemResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetGalleryItemsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.GalleryItemResponse, error)
	Update(ctx context.Context, req dto.UpdateGalleryItemRequest, id string) (dto.GalleryItemResponse, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
}

type serviceImpl struct {
	repo  repository.GalleryItem
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.GalleryItem, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) GalleryItem {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// ensureUploaded rejects image URLs that were not produced by UploadImage or whose
// object no longer exists in the bucket.
func (s *serviceImpl) ensureUploaded(ctx context.Context, imageURL string) error {
	objectKey := s.s3.GetObjectNameFromURL(imageURL)
	if objectKey == constant.Empty {
		return failure.BadRequestFromString(errUnknownImage)
	}

	exists, err := s.s3.ObjectExists(ctx, objectKey)
	if err != nil {
		log.Error().Err(err).Str("objectKey", objectKey).Msg("failed to check gallery image")

		return fmt.Errorf("failed to check gallery image: %w", err)
	}

	if !exists {
		return failure.BadRequestFromString(errUnknownImage)
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetGalleryItem, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete gallery item cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllGalleryItem)
	shared.InvalidateCaches(ctx, s.cache, cacheCountGalleryItem)
}

func (s *serviceImpl) deleteImage(ctx context.Context, imageURL string) {
	objectKey := s.s3.GetObjectNameFromURL(imageURL)
	if objectKey == constant.Empty {
		log.Warn().Str("url", imageURL).Msg("failed to extract object name from URL")

		return
	}

	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		log.Error().Err(err).Str("objectKey", objectKey).Msg("failed to delete gallery image")
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateGalleryItemRequest) (res dto.GalleryItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureUploaded(ctx, req.ImageURL); err != nil {
		return res, err
	}

	item := req.ToModel(user)

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create gallery item")

		return res, fmt.Errorf("failed to create gallery item: %w", err)
	}

	res.FromModel(item)

	go func() {
		s.invalidate(context.WithoutCancel(ctx), constant.Empty)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetGalleryItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	shared.SanitizeSort(&req, dto.SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllGalleryItem, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for gallery items")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count gallery items")

		return res, err
	}

	items, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get gallery items")

		return res, fmt.Errorf("failed to get gallery items: %w", err)
	}

	res.FromModels(items, total, req.Limit)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountGalleryItem, gDto.QueryParams{}, filter)

	if err := s.cache.Get(ctx, cacheKey, &total); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for gallery item count")

		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count gallery items")

		return total, fmt.Errorf("failed to count gallery items: %w", err)
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, total, s.cfg.Cache.TTL)

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.GalleryItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetGalleryItem, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for gallery item")

		return res, nil
	}

	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get gallery item")

		return res, fmt.Errorf("failed to get gallery item: %w", err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound(errGalleryItemNotFound)
	}

	res.FromModel(item)

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateGalleryItemRequest, id string) (res dto.GalleryItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get gallery item")

		return res, fmt.Errorf("failed to get gallery item: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound(errGalleryItemNotFound)
	}

	imageChanged := req.ImageURL != nil && *req.ImageURL != current.ImageURL
	if imageChanged {
		if err = s.ensureUploaded(ctx, *req.ImageURL); err != nil {
			return res, err
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update gallery item")

		return res, fmt.Errorf("failed to update gallery item: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload gallery item")

		return res, fmt.Errorf("failed to reload gallery item: %w", err)
	}

	res.FromModel(updated)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, id)

		if imageChanged {
			s.deleteImage(c, current.ImageURL)
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	item, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get gallery item for deletion")

		return fmt.Errorf("failed to get gallery item: %w", err)
	}

	if item.ID == constant.Empty {
		return failure.NotFound(errGalleryItemNotFound)
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete gallery item")

		return fmt.Errorf("failed to delete gallery item: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, id)
		s.deleteImage(c, item.ImageURL)
	}()

	return nil
}

// objectKey names an upload gallery/<unix-nano><ext>, keeping the original extension.
func objectKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))

	return model.ObjectKeyPrefix + "/" + strconv.FormatInt(timezone.Now().UnixNano(), 10) + ext
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer func() {
		scope.TraceIfError(err)
		metrics.IncImageUpload(err == nil)
	}()

	key := objectKey(req.Image.Filename)
	contentType := req.Image.Header.Get(constant.RequestHeaderContentType)

	url, err := s.s3.UploadFile(ctx, key, contentType, req.ImageFile)
	if err != nil {
		log.Error().Err(err).Str("objectKey", key).Msg("failed to upload gallery image")

		return res, fmt.Errorf("failed to upload gallery image: %w", err)
	}

	res.FromModel(url, key, req.Image.Filename)

	return res, nil
}
