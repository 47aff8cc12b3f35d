package httptransport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminOnly(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "s3cret")

	handler := adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid token", "s3cret", http.StatusNoContent},
		{"wrong token", "nope", http.StatusForbidden},
		{"missing token", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/pickup-points", nil)
			if tt.token != "" {
				req.Header.Set("X-Admin-Token", tt.token)
			}

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAdminOnly_UnsetTokenLocksRoutes(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "")

	handler := adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/pickup-points", nil)
	req.Header.Set("X-Admin-Token", "")

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
