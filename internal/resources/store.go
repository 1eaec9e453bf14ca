package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"docemania/transport/http/client"
)

// restStore reads and writes one /v1 collection. listKey names the array inside
// the list envelope, e.g. "gallery_items".
type restStore[T, C, U any] struct {
	api     *client.Client
	path    string
	listKey string
	query   url.Values
}

func (s *restStore[T, C, U]) List(ctx context.Context) ([]T, error) {
	var page map[string]json.RawMessage

	if err := s.api.Do(ctx, http.MethodGet, s.path, s.query, nil, &page); err != nil {
		return nil, err
	}

	var rows []T

	raw, ok := page[s.listKey]
	if !ok || string(raw) == "null" {
		return rows, nil
	}

	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.listKey, err)
	}

	return rows, nil
}

func (s *restStore[T, C, U]) Create(ctx context.Context, fields C) (T, error) {
	var row T

	err := s.api.Do(ctx, http.MethodPost, s.path, nil, fields, &row)

	return row, err
}

func (s *restStore[T, C, U]) Update(ctx context.Context, id string, fields U) (T, error) {
	var row T

	err := s.api.Do(ctx, http.MethodPatch, s.path+"/"+url.PathEscape(id), nil, fields, &row)

	return row, err
}

func (s *restStore[T, C, U]) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, http.MethodDelete, s.path+"/"+url.PathEscape(id), nil, nil, nil)
}

// validated runs the struct validator on create or update fields.
func validated[F any](validate func(*F) error) func(F) (F, error) {
	return func(fields F) (F, error) {
		if err := validate(&fields); err != nil {
			return fields, err
		}

		return fields, nil
	}
}
