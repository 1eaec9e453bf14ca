package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"docemania/config"
	"docemania/internal/admin"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	logins  atomic.Int32
	logouts atomic.Int32
	status  atomic.Value
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *backend) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer access" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})

		return false
	}

	return true
}

func (b *backend) router() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})

			return
		}

		b.logins.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"access_token": "access", "refresh_token": "refresh", "token_type": "Bearer"}})
	})

	r.Post("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if b.authorized(w, r) {
			b.logouts.Add(1)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		}
	})

	r.Get("/v1/gallery-items", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"gallery_items": []map[string]string{
			{"id": "g-1", "title": "Bolo de morango", "category": "Aniversários", "image_url": "https://cdn/g-1.png"},
		}}})
	})

	r.Get("/v1/testimonials", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"testimonials": []any{}, "total_page": 1, "total_data": 0}})
	})

	r.Get("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		if b.authorized(w, r) {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"bookings": []any{}, "total_page": 1, "total_data": 0}})
		}
	})

	r.Patch("/v1/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}

		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.status.Store(req["status"])

		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{
			"id": chi.URLParam(r, "id"), "name": "Maria", "status": req["status"], "status_label": "Confirmado",
		}})
	})

	return r
}

func run(t *testing.T, b *backend, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(b.router())
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Client.BaseURL = server.URL
	cfg.Admin.Email = "admin@docemania.com.br"
	cfg.Admin.Password = "secret"

	out := &bytes.Buffer{}
	err := admin.NewApp(cfg, server.Client(), out).RunContext(context.Background(), append([]string{"docemania-admin"}, args...))

	return out.String(), err
}

func TestGalleryList_IsPublic(t *testing.T) {
	b := &backend{}

	out, err := run(t, b, "gallery", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Bolo de morango")
	assert.Contains(t, out, "Aniversários")
	assert.Zero(t, b.logins.Load())
}

func TestList_EmptyState(t *testing.T) {
	tests := []struct {
		resource string
		want     string
	}{
		{resource: "testimonials", want: "Nenhum depoimento cadastrado ainda."},
		{resource: "bookings", want: "Nenhum agendamento encontrado."},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			out, err := run(t, &backend{}, tt.resource, "list")
			require.NoError(t, err)

			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "ID")
		})
	}
}

func TestBookingStatus_UsesASession(t *testing.T) {
	b := &backend{}

	out, err := run(t, b, "bookings", "status", "b-1", "confirmed")
	require.NoError(t, err)

	assert.Equal(t, "confirmed", b.status.Load())
	assert.Equal(t, int32(1), b.logins.Load())
	assert.Equal(t, int32(1), b.logouts.Load())
	assert.Contains(t, out, "Login realizado com sucesso!")
	assert.Contains(t, out, "Agendamento atualizado!")
	assert.Contains(t, out, "Confirmado")
	assert.Contains(t, out, "Logout realizado")
}

func TestBookingStatus_RejectsUnknownStatus(t *testing.T) {
	b := &backend{}

	_, err := run(t, b, "bookings", "status", "b-1", "done")
	assert.ErrorContains(t, err, "invalid status")
	assert.Zero(t, b.logins.Load())
}

func TestLoginFailure(t *testing.T) {
	b := &backend{}

	out, err := run(t, b, "--password", "wrong", "bookings", "delete", "b-1")
	assert.Error(t, err)
	assert.Contains(t, out, "Erro no login")
	assert.Zero(t, b.logouts.Load())
}

func TestDeleteRequiresID(t *testing.T) {
	_, err := run(t, &backend{}, "gallery", "delete")
	assert.ErrorIs(t, err, admin.ErrMissingID)
}
