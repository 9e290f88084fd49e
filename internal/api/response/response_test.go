// internal/api/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsdesk/stardesk/internal/core"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"key": "value"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["key"] != "value" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestError_CoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, core.WrapError(core.ErrArticleNotFound, errors.New("id abc")))

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "ARTICLE_NOT_FOUND" {
		t.Errorf("code = %s", resp.Error.Code)
	}
	if resp.Error.Cause != "id abc" {
		t.Errorf("cause = %s", resp.Error.Cause)
	}
	if resp.Error.RetryAfterSeconds != 0 || resp.Error.Scope != "" {
		t.Error("non-throttle error must not carry retry fields")
	}
}

func TestError_Unstructured(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusInternalServerError, errors.New("plain"))

	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %s", resp.Error.Code)
	}
	if resp.Error.Cause == "plain" {
		t.Error("unstructured error internals must not leak")
	}
}

func TestFromError_RateLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, core.NewRateLimitError("gemini", 30, core.ScopePerMinute))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "RATE_LIMITED" {
		t.Errorf("code = %s", resp.Error.Code)
	}
	if resp.Error.RetryAfterSeconds != 30 {
		t.Errorf("retry_after_seconds = %d, want 30", resp.Error.RetryAfterSeconds)
	}
	if resp.Error.Scope != "per-minute" {
		t.Errorf("scope = %s", resp.Error.Scope)
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.NewRateLimitError("gemini", 17, core.ScopeUnknown), http.StatusTooManyRequests},
		{core.ErrArticleNotFound, http.StatusNotFound},
		{core.ErrUnknownFeature, http.StatusNotFound},
		{core.ErrTimeout, http.StatusGatewayTimeout},
		{core.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{core.ErrUpstream, http.StatusBadGateway},
		{core.ErrBadResponse, http.StatusBadGateway},
		{core.ErrExtraction, http.StatusBadGateway},
		{core.ErrInvalidRequest, http.StatusBadRequest},
		{errors.New("unmapped"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusFromError(tc.err); got != tc.want {
			t.Errorf("StatusFromError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
