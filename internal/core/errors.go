// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Provider errors
	ErrProviderUnavailable = &Error{Code: "PROVIDER_UNAVAILABLE", Message: "provider is not available"}
	ErrTimeout             = &Error{Code: "TIMEOUT", Message: "request deadline exceeded"}
	ErrRateLimited         = &Error{Code: "RATE_LIMITED", Message: "provider rate limit exceeded"}
	ErrUpstream            = &Error{Code: "UPSTREAM_ERROR", Message: "provider returned an error"}
	ErrBadResponse         = &Error{Code: "BAD_RESPONSE", Message: "provider response missing expected fields"}

	// Extraction errors
	ErrExtraction = &Error{Code: "EXTRACTION_FAILED", Message: "cannot recover JSON from generated text"}

	// Feature errors
	ErrUnknownFeature = &Error{Code: "UNKNOWN_FEATURE", Message: "feature not found in prompt catalog"}

	// Article errors
	ErrArticleNotFound = &Error{Code: "ARTICLE_NOT_FOUND", Message: "article not found"}

	// Request errors
	ErrInvalidRequest = &Error{Code: "INVALID_REQUEST", Message: "request body is invalid"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

// RateLimitScope classifies which quota window was exhausted. Upstream
// payloads do not always say, so ScopeUnknown is a valid outcome.
type RateLimitScope string

const (
	ScopePerMinute RateLimitScope = "per-minute"
	ScopePerDay    RateLimitScope = "per-day"
	ScopeUnknown   RateLimitScope = "unknown"
)

// DefaultRetryAfterSeconds is used when the upstream payload omits a
// machine-readable retry delay.
const DefaultRetryAfterSeconds = 17

// RateLimitError carries the structured throttling signal from an upstream
// 429. Callers key backoff and feature-disable behavior off these fields,
// never off the message text.
type RateLimitError struct {
	Provider          string
	RetryAfterSeconds int
	Scope             RateLimitScope
	Message           string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("[%s] %s", ErrRateLimited.Code, e.Message)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// NewRateLimitError builds a RateLimitError with a human-readable message
// stating scope, retry time and remediation.
func NewRateLimitError(provider string, retryAfter int, scope RateLimitScope) *RateLimitError {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfterSeconds
	}
	if scope == "" {
		scope = ScopeUnknown
	}

	var window string
	switch scope {
	case ScopePerMinute:
		window = "per-minute request quota"
	case ScopePerDay:
		window = "daily request quota"
	default:
		window = "request quota"
	}

	var when string
	switch {
	case retryAfter < 60:
		when = fmt.Sprintf("%d seconds", retryAfter)
	case retryAfter%60 == 0:
		when = fmt.Sprintf("%d minutes", retryAfter/60)
	default:
		when = fmt.Sprintf("%d minutes %d seconds", retryAfter/60, retryAfter%60)
	}

	return &RateLimitError{
		Provider:          provider,
		RetryAfterSeconds: retryAfter,
		Scope:             scope,
		Message: fmt.Sprintf(
			"%s %s exceeded; retry in %s, or check your plan and quota limits",
			provider, window, when),
	}
}

// maxBodyInMessage bounds how much upstream payload is quoted in error
// messages. Upstream bodies are unbounded and must never be surfaced whole.
const maxBodyInMessage = 512

// UpstreamError represents any non-success, non-429 HTTP status from a
// provider. Body is truncated at construction.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("[%s] %s returned status %d: %s", ErrUpstream.Code, e.Provider, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NewUpstreamError builds an UpstreamError with a bounded body.
func NewUpstreamError(provider string, status int, body string) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Status:   status,
		Body:     Truncate(body, maxBodyInMessage),
	}
}

// maxSnippet bounds the diagnostic snippet carried by ExtractionError.
const maxSnippet = 800

// ExtractionError reports that no valid JSON object could be recovered from
// generated text. Snippet is bounded; Offset is -1 when the parser did not
// report one.
type ExtractionError struct {
	Reason  string
	Offset  int64
	Snippet string
}

func (e *ExtractionError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("[%s] %s (near offset %d): %q", ErrExtraction.Code, e.Reason, e.Offset, e.Snippet)
	}
	return fmt.Sprintf("[%s] %s: %q", ErrExtraction.Code, e.Reason, e.Snippet)
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}

// NewExtractionError builds an ExtractionError with a bounded snippet of the
// original text.
func NewExtractionError(reason string, offset int64, raw string) *ExtractionError {
	return &ExtractionError{
		Reason:  reason,
		Offset:  offset,
		Snippet: Truncate(raw, maxSnippet),
	}
}

// Truncate cuts s to at most n bytes, appending a marker when cut.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
