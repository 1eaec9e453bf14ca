package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"docemania/config"
	"docemania/infras/kafka"
	kafkaMocks "docemania/infras/kafka/mocks"
	"docemania/infras/otel/mocks"
	bookingMocks "docemania/internal/domains/booking/mocks"
	"docemania/internal/domains/booking/model"
	"docemania/internal/domains/booking/model/dto"
	"docemania/internal/domains/booking/service"
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
	repo  *bookingMocks.MockBooking
	cache *cacheMocks.MockRedisCache
	kafka *kafkaMocks.MockClient
	svc   service.Booking
}

func newTestDeps(t *testing.T, brokers ...string) testDeps {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.WhatsApp.CountryCode = "55"
	cfg.Kafka.Brokers = brokers
	cfg.Kafka.Topics.BookingCreated = "bookings.created"

	deps := testDeps{
		repo:  bookingMocks.NewMockBooking(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
	}
	deps.svc = service.New(deps.repo, cfg, deps.cache, mocks.NewOtel(), deps.kafka)

	return deps
}

func (d testDeps) allowCacheWrites() {
	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func newBooking(id string) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:        id,
		Name:      "Maria Silva",
		Phone:     "(11) 98888-7777",
		EventDate: now.AddDate(0, 1, 0),
		CakeType:  model.CakeTypeWedding,
		Status:    model.StatusPending,
		Metadata:  gModel.NewMetadata(now, constant.ContextGuest),
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		Name:      "Maria Silva",
		Phone:     "(11) 98888-7777",
		EventDate: timezone.Now().AddDate(0, 1, 0).Format(constant.DayFormat),
		CakeType:  model.CakeTypeWedding,
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("stores a pending booking and publishes the event", func(t *testing.T) {
		d := newTestDeps(t, "localhost:9092")

		published := make(chan kafka.Message, 1)

		d.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				assert.Equal(t, model.StatusPending, b.Status)
				assert.Equal(t, constant.ContextGuest, b.CreatedBy)

				return nil
			})
		d.kafka.EXPECT().
			SendMessages(gomock.Any(), "bookings.created", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				published <- messages[0]

				return nil
			})
		d.allowCacheWrites()

		res, err := d.svc.Create(context.Background(), createRequest())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)

		select {
		case msg := <-published:
			event, ok := msg.Value.(dto.BookingCreatedEvent)
			assert.True(t, ok)
			assert.Equal(t, res.ID, msg.Key)
			assert.Equal(t, res.ID, event.ID)
			assert.True(t, strings.HasPrefix(event.WhatsAppLink, "https://wa.me/5511988887777"))
		case <-time.After(time.Second):
			t.Fatal("booking created event was not published")
		}
	})

	t.Run("guests cannot choose the status", func(t *testing.T) {
		d := newTestDeps(t)

		req := createRequest()
		req.Status = model.StatusConfirmed

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		d.allowCacheWrites()

		res, err := d.svc.Create(context.Background(), req)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("admins choose the initial status", func(t *testing.T) {
		d := newTestDeps(t)

		req := createRequest()
		req.Status = model.StatusConfirmed

		d.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				assert.Equal(t, "admin-id", b.CreatedBy)

				return nil
			})
		d.allowCacheWrites()

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
		res, err := d.svc.Create(ctx, req)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	t.Run("no brokers skips publishing", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		d.allowCacheWrites()

		res, err := d.svc.Create(context.Background(), createRequest())

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("repository error", func(t *testing.T) {
		d := newTestDeps(t, "localhost:9092")

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		res, err := d.svc.Create(context.Background(), createRequest())

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Empty(t, res.ID)
	})
}

func TestBookingService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: "event_date", SortDir: gDto.SortDirAsc}

	d := newTestDeps(t)

	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	d.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	d.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "event_date", p.SortBy)

			return []model.Booking{newBooking("b-2"), newBooking("b-1")}, nil
		})
	d.allowCacheWrites()

	res, err := d.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, "Pendente", res.Bookings[0].StatusLabel)
	assert.Equal(t, 2, res.TotalData)
}

func TestBookingService_Get(t *testing.T) {
	t.Run("includes the whatsapp link", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(errors.New("cache miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(newBooking("b-1"), nil)
		d.allowCacheWrites()

		res, err := d.svc.Get(context.Background(), "b-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.WhatsAppLink, "https://wa.me/5511988887777?text="))
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := d.svc.Get(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
	confirmed := model.StatusConfirmed

	t.Run("any status transition", func(t *testing.T) {
		d := newTestDeps(t)

		updated := newBooking("b-1")
		updated.Status = confirmed

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, confirmed, fields[model.FieldStatus])

				return nil
			})
		d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
		d.allowCacheWrites()

		res, err := d.svc.Update(ctx, dto.UpdateBookingRequest{Status: &confirmed}, "b-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, confirmed, res.Status)
		assert.Equal(t, "Confirmado", res.StatusLabel)
	})

	t.Run("empty request", func(t *testing.T) {
		d := newTestDeps(t)

		_, err := d.svc.Update(ctx, dto.UpdateBookingRequest{}, "b-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := d.svc.Update(ctx, dto.UpdateBookingRequest{Status: &confirmed}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		d.allowCacheWrites()

		err := d.svc.Delete(context.Background(), "b-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := d.svc.Delete(context.Background(), "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("delete error", func(t *testing.T) {
		d := newTestDeps(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		err := d.svc.Delete(context.Background(), "b-1")

		assert.Error(t, err)
	})
}
