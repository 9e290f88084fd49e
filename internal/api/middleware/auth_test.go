// internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(apiKey string) http.Handler {
	return APIKeyAuth(apiKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	rec := httptest.NewRecorder()
	authedHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
