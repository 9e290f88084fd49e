// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// AI metrics
	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	aiRateLimitsTotal *prometheus.CounterVec
	validationRuns    prometheus.Counter

	// Article metrics
	articlesPublished prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),

		aiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stardesk_ai_requests_total",
				Help: "Total number of AI feature invocations",
			},
			[]string{"feature", "provider", "status"},
		),

		aiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stardesk_ai_request_duration_seconds",
				Help:    "AI feature invocation duration in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"feature"},
		),

		aiRateLimitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stardesk_ai_rate_limits_total",
				Help: "Total number of upstream rate limit responses",
			},
			[]string{"provider", "scope"},
		),

		validationRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stardesk_full_validations_total",
				Help: "Total number of full validation runs",
			},
		),

		articlesPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stardesk_articles_published_total",
				Help: "Total number of articles published",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)
	reg.MustRegister(r.aiRequestsTotal)
	reg.MustRegister(r.aiRequestDuration)
	reg.MustRegister(r.aiRateLimitsTotal)
	reg.MustRegister(r.validationRuns)
	reg.MustRegister(r.articlesPublished)

	return r
}

// RecordRequest records an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, seconds float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// InFlightInc increments the in-flight request gauge.
func (r *Registry) InFlightInc() { r.httpRequestsInFlight.Inc() }

// InFlightDec decrements the in-flight request gauge.
func (r *Registry) InFlightDec() { r.httpRequestsInFlight.Dec() }

// RecordFeature records one AI feature invocation.
func (r *Registry) RecordFeature(feature, provider, status string, seconds float64) {
	r.aiRequestsTotal.WithLabelValues(feature, provider, status).Inc()
	r.aiRequestDuration.WithLabelValues(feature).Observe(seconds)
}

// RecordRateLimit records an upstream throttle response.
func (r *Registry) RecordRateLimit(provider, scope string) {
	r.aiRateLimitsTotal.WithLabelValues(provider, scope).Inc()
}

// RecordValidationRun records one full validation fan-out.
func (r *Registry) RecordValidationRun() { r.validationRuns.Inc() }

// RecordPublish records one article publication.
func (r *Registry) RecordPublish() { r.articlesPublished.Inc() }

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
