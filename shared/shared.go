package shared

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"

	"docemania/shared/cache"
	"docemania/shared/constant"
	"docemania/shared/dto"
	"docemania/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero, db-tagged fields of a struct into a map
// of updated columns and stamps the update metadata. Non-nil pointer fields are
// dereferenced, so a pointer to a zero value still updates the column.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldUpdatedAt] = timezone.Now()
	updatedFields[constant.FieldUpdatedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// SanitizeSort keeps SortBy only when it names one of the allowed columns and
// falls back to the newest-first default otherwise.
func SanitizeSort(params *dto.QueryParams, allowed ...string) {
	if !slices.Contains(allowed, params.SortBy) {
		params.SortBy = constant.DefaultValueSortBy
	}

	if params.SortDir == "" {
		params.SortDir = constant.DefaultValueSortDir
	}
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a deterministic key from pagination, sorting and
// filter arguments so that equal queries share one cache entry.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	parts := []string{
		fmt.Sprintf("page=%d", params.Page),
		fmt.Sprintf("limit=%d", params.Limit),
		"sort=" + params.SortBy,
		"dir=" + params.SortDir,
	}

	_, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, args[name]))
	}

	return BuildCacheKey(prefix, parts...)
}

// SaveCacheAsync stores value under key in the background, detached from the
// request's cancellation. Failures are only logged.
func SaveCacheAsync(ctx context.Context, redisCache cache.RedisCache, key string, value any, ttl int) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := redisCache.Save(ctx, key, value, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to save cache")
		}
	}()
}

// InvalidateCaches removes every key under prefix. Failures are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
