// Package monitoring provides Prometheus metrics collection
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	recipesGeneratedTotal   prometheus.Counter
	generationFailuresTotal *prometheus.CounterVec
	starsToggledTotal       prometheus.Counter
	usersProvisionedTotal   prometheus.Counter
	generationDuration      prometheus.Histogram
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		recipesGeneratedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_generated_total",
				Help: "Total number of recipes generated",
			},
		),
		generationFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_generation_failures_total",
				Help: "Total number of failed generation attempts",
			},
			[]string{"reason"},
		),
		starsToggledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recipe_stars_toggled_total",
				Help: "Total number of star toggles",
			},
		),
		usersProvisionedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "users_provisioned_total",
				Help: "Total number of accounts provisioned",
			},
		),
		generationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_generation_duration_seconds",
				Help:    "End to end recipe generation duration in seconds",
				Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
		),
	}
}

// Middleware records request count and latency per route pattern.
func (m *MetricsCollector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// The chi route pattern keeps cardinality bounded.
			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}

			status := strconv.Itoa(wrapped.status)
			m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus scrape endpoint
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRecipeGenerated counts a successful generation run
func (m *MetricsCollector) RecordRecipeGenerated(duration time.Duration) {
	m.recipesGeneratedTotal.Inc()
	m.generationDuration.Observe(duration.Seconds())
}

// RecordGenerationFailure counts a failed generation run
func (m *MetricsCollector) RecordGenerationFailure(reason string) {
	m.generationFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordStarToggled counts a star toggle
func (m *MetricsCollector) RecordStarToggled() {
	m.starsToggledTotal.Inc()
}

// RecordUserProvisioned counts a first-time login
func (m *MetricsCollector) RecordUserProvisioned() {
	m.usersProvisionedTotal.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
