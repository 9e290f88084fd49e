// internal/api/handler/ai_test.go
package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/core"
)

func TestDecodeAIRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/ai/auto-tag",
		strings.NewReader(`{"title":"제목","content":"본문","options":{"maxTags":5,"type":"sns"}}`))

	req, err := decodeAIRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "제목", req.Title)
	assert.Equal(t, "본문", req.Content)
	assert.Equal(t, 5, req.Options.MaxTags)
	assert.Equal(t, "sns", req.Options.Type)
}

func TestDecodeAIRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"content":`},
		{"missing content", `{"title":"제목만"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/ai/auto-tag", strings.NewReader(tc.body))
			_, err := decodeAIRequest(r)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidRequest)
		})
	}
}

func TestWriteResult_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	writeResult(rec, feature.Result[feature.AutoTag]{
		Success: true,
		Data:    &feature.AutoTag{Tags: []string{"A"}},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestWriteResult_RateLimited(t *testing.T) {
	rec := httptest.NewRecorder()
	writeResult(rec, feature.Result[feature.AutoTag]{
		Success:   false,
		Error:     "gemini per-minute request quota exceeded",
		RateLimit: &feature.RateLimitInfo{RetryAfterSeconds: 17, Scope: "per-minute"},
	})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryAfterSeconds":17`)
}

func TestWriteResult_PlainFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeResult(rec, feature.Result[feature.AutoTag]{
		Success: false,
		Error:   "upstream error",
	})

	// Non-throttle failures stay 200; the envelope carries the outcome.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
