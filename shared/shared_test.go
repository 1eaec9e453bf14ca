package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"docemania/shared"
	"docemania/shared/cache/mocks"
	"docemania/shared/constant"
	"docemania/shared/dto"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, pages int
	}{
		{total: 0, limit: 10, pages: 1},
		{total: 25, limit: 0, pages: 1},
		{total: 25, limit: -1, pages: 1},
		{total: 3, limit: 10, pages: 1},
		{total: 10, limit: 10, pages: 1},
		{total: 11, limit: 10, pages: 2},
		{total: 1000, limit: 7, pages: 143},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pages, shared.CalculateTotalPage(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Title    *string `db:"title"`
		Rating   *int    `db:"rating"`
		Category string  `db:"category"`
		Featured bool    `db:"featured"`
		Skipped  string  `db:"-"`
		Untagged string
	}

	title := "Bolo de Rolo"
	zero := 0

	fields := shared.TransformFields(update{
		Title:    &title,
		Rating:   &zero,
		Skipped:  "x",
		Untagged: "y",
	}, "admin-1")

	assert.Equal(t, "Bolo de Rolo", fields["title"])
	assert.Equal(t, 0, fields["rating"], "a pointer to zero still updates the column")
	assert.NotContains(t, fields, "category")
	assert.NotContains(t, fields, "featured")
	assert.NotContains(t, fields, "-")
	assert.NotContains(t, fields, "Untagged")

	assert.Equal(t, "admin-1", fields[constant.FieldUpdatedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldUpdatedAt])
	assert.Len(t, fields, 4)
}

func TestTransformFields_OnlyMetadata(t *testing.T) {
	type update struct {
		Title *string `db:"title"`
	}

	fields := shared.TransformFields(update{}, "admin-1")

	assert.Len(t, fields, 2)
	assert.Contains(t, fields, constant.FieldUpdatedAt)
	assert.Contains(t, fields, constant.FieldUpdatedBy)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("b-1", "id", "bookings")
	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestSanitizeSort(t *testing.T) {
	tests := []struct {
		name    string
		params  dto.QueryParams
		sortBy  string
		sortDir string
	}{
		{"allowed column is kept", dto.QueryParams{SortBy: "event_date", SortDir: dto.SortDirAsc}, "event_date", dto.SortDirAsc},
		{"unknown column falls back", dto.QueryParams{SortBy: "name; drop table bookings", SortDir: dto.SortDirAsc}, constant.DefaultValueSortBy, dto.SortDirAsc},
		{"empty uses defaults", dto.QueryParams{}, constant.DefaultValueSortBy, constant.DefaultValueSortDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			shared.SanitizeSort(&params, "event_date", "created_at")

			assert.Equal(t, tt.sortBy, params.SortBy)
			assert.Equal(t, tt.sortDir, params.SortDir)
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "gallery:item-1", shared.BuildCacheKey("gallery", "item-1"))
	assert.Equal(t, "gallery", shared.BuildCacheKey("gallery"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}
	wedding := dto.NewFilterGroup(dto.FilterGroupOperatorAnd,
		dto.Filter{Field: "category", Value: "Casamento", Operator: dto.FilterOperatorEq},
	)

	key := shared.BuildCacheKeyWithQuery("gallery", params, wedding)

	assert.Equal(t, "gallery:page=1:limit=10:sort=created_at:dir=DESC:category=Casamento", key)
	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("gallery", params, wedding))

	params.Page = 2
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("gallery", params, wedding))
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("gallery", dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}, dto.FilterGroup{}))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Clear(gomock.Any(), "gallery*").Return(nil)
	shared.InvalidateCaches(context.Background(), redis, "gallery")

	redis.EXPECT().Clear(gomock.Any(), "bookings*").Return(errors.New("connection refused"))
	shared.InvalidateCaches(context.Background(), redis, "bookings")
}

func TestSaveCacheAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisCache(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	saved := make(chan error, 1)

	redis.EXPECT().
		Save(gomock.Any(), "gallery:get:item-1", "payload", 60).
		DoAndReturn(func(ctx context.Context, _ string, _ any, _ int) error {
			saved <- ctx.Err()

			return nil
		})

	shared.SaveCacheAsync(ctx, redis, "gallery:get:item-1", "payload", 60)

	select {
	case err := <-saved:
		assert.NoError(t, err, "the save must outlive the request context")
	case <-time.After(time.Second):
		t.Fatal("cache save never ran")
	}
}
