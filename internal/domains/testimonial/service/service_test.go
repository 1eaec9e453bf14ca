package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"docemania/config"
	"docemania/infras/otel/mocks"
	testimonialMocks "docemania/internal/domains/testimonial/mocks"
	"docemania/internal/domains/testimonial/model"
	"docemania/internal/domains/testimonial/model/dto"
	"docemania/internal/domains/testimonial/service"
	cacheMocks "docemania/shared/cache/mocks"
	"docemania/shared/constant"
	gDto "docemania/shared/dto"
	"docemania/shared/failure"
	gModel "docemania/shared/model"
	"docemania/shared/timezone"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	repo  *testimonialMocks.MockTestimonial
	cache *cacheMocks.MockRedisCache
	svc   service.Testimonial
}

func newTestDeps(t *testing.T) testDeps {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	deps := testDeps{
		repo:  testimonialMocks.NewMockTestimonial(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	deps.svc = service.New(deps.repo, cfg, deps.cache, mocks.NewOtel())

	return deps
}

func (d testDeps) allowCacheWrites() {
	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func newTestimonial(id string) model.Testimonial {
	now := timezone.Now()

	return model.Testimonial{
		ID:       id,
		Name:     "Maria Silva",
		Text:     "O bolo estava maravilhoso!",
		Rating:   5,
		Date:     now,
		Metadata: gModel.NewMetadata(now, constant.ContextGuest),
	}
}

func TestTestimonialService_Create(t *testing.T) {
	req := dto.CreateTestimonialRequest{Name: "Maria Silva", Text: "Maravilhoso", Rating: 5}

	t.Run("guest submission", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Testimonial) error {
				assert.Equal(t, constant.ContextGuest, m.CreatedBy)

				return nil
			})
		d.allowCacheWrites()

		res, err := d.svc.Create(context.Background(), req)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, constant.ContextGuest, res.CreatedBy)
	})

	t.Run("admin submission", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		d.allowCacheWrites()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
		res, err := d.svc.Create(ctx, req)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "admin-id", res.CreatedBy)
	})

	t.Run("repository error", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := d.svc.Create(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestTestimonialService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Limit: 10, Page: 1, SortBy: "rating", SortDir: gDto.SortDirAsc}

	t.Run("cache miss loads from repository", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		d.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Testimonial, error) {
				assert.Equal(t, "rating", p.SortBy)
				assert.Equal(t, gDto.SortDirAsc, p.SortDir)

				return []model.Testimonial{newTestimonial("t-1")}, nil
			})
		d.allowCacheWrites()

		res, err := d.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Len(t, res.Testimonials, 1)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("count error", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

		_, err := d.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestTestimonialService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), "testimonial:get:t-1", gomock.Any()).Return(errors.New("cache miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(newTestimonial("t-1"), nil)
		d.allowCacheWrites()

		res, err := d.svc.Get(context.Background(), "t-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "t-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Testimonial{}, nil)

		_, err := d.svc.Get(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTestimonialService_Update(t *testing.T) {
	rating := model.Rating(3)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	t.Run("updates and reloads", func(t *testing.T) {
		d := newTestDeps(t)

		updated := newTestimonial("t-1")
		updated.Rating = rating

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, rating, fields[model.FieldRating])
				assert.Equal(t, "admin-id", fields[constant.FieldUpdatedBy])

				return nil
			})
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
		d.allowCacheWrites()

		res, err := d.svc.Update(ctx, dto.UpdateTestimonialRequest{Rating: &rating}, "t-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, rating, res.Rating)
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := d.svc.Update(ctx, dto.UpdateTestimonialRequest{Rating: &rating}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTestimonialService_Delete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		d.allowCacheWrites()

		err := d.svc.Delete(context.Background(), "t-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := d.svc.Delete(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("exist error", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))

		err := d.svc.Delete(context.Background(), "t-1")

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
