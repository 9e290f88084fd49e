// internal/api/response/response.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newsdesk/stardesk/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information. RetryAfterSeconds and Scope are
// set only for throttling errors so clients can schedule a retry.
type ErrorDetail struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	Cause             string `json:"cause,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
	Scope             string `json:"scope,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes a success response with data.
func JSON(w http.ResponseWriter, status int, data any) {
	resp := SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}

	var rateErr *core.RateLimitError
	if errors.As(err, &rateErr) {
		detail.Code = core.ErrRateLimited.Code
		detail.Message = rateErr.Message
		detail.RetryAfterSeconds = rateErr.RetryAfterSeconds
		detail.Scope = string(rateErr.Scope)
	}

	resp := ErrorResponse{Error: detail}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// FromError writes err with the HTTP status implied by its code.
func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFromError(err), err)
}

// StatusFromError maps domain errors to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrArticleNotFound), errors.Is(err, core.ErrUnknownFeature):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, core.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUpstream), errors.Is(err, core.ErrBadResponse), errors.Is(err, core.ErrExtraction):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrInvalidRequest), errors.Is(err, core.ErrConfigInvalid), errors.Is(err, core.ErrConfigMissing):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
