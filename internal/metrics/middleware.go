// internal/metrics/middleware.go
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses article IDs to a placeholder. The path label
// must stay bounded; per-article label values would grow without limit.
func normalizePath(path string) string {
	if !strings.ContainsRune(path, '-') {
		return path
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// HTTPMiddleware returns middleware that records HTTP metrics.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			reg.RecordRequest(r.Method, normalizePath(r.URL.Path), rw.statusCode, duration)
		})
	}
}
