// Package healthcheck provides health and readiness check functionality
// Following the Health Check API pattern for cloud-native applications
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check reports the outcome of a single dependency probe
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// Response aggregates all dependency probes
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// HealthCheck manages named dependency probes. Results are cached
// briefly so probe storms cannot hammer the dependencies themselves.
type HealthCheck struct {
	version  string
	logger   *zap.Logger
	timeout  time.Duration
	cacheTTL time.Duration

	mu       sync.RWMutex
	checks   map[string]CheckFunc
	cached   *Response
	cachedAt time.Time
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger,
		timeout:  5 * time.Second,
		cacheTTL: 5 * time.Second,
		checks:   make(map[string]CheckFunc),
	}
}

// Register registers a dependency probe under a name.
func (h *HealthCheck) Register(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetCacheTTL sets how long an aggregated result is reused.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Check runs every registered probe and aggregates the result.
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cached != nil && time.Since(h.cachedAt) < h.cacheTTL {
		cached := *h.cached
		h.mu.RUnlock()
		return cached
	}
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, fn := range h.checks {
		checks[name] = fn
	}
	h.mu.RUnlock()

	started := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: started,
	}

	for name, fn := range checks {
		response.Checks = append(response.Checks, h.run(ctx, name, fn))
	}
	sort.Slice(response.Checks, func(i, j int) bool {
		return response.Checks[i].Name < response.Checks[j].Name
	})

	for _, check := range response.Checks {
		if check.Status != StatusHealthy {
			response.Status = StatusUnhealthy
			break
		}
	}
	response.TotalDuration = time.Since(started) / time.Millisecond

	h.mu.Lock()
	h.cached = &response
	h.cachedAt = started
	h.mu.Unlock()

	return response
}

func (h *HealthCheck) run(ctx context.Context, name string, fn CheckFunc) Check {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	started := time.Now()
	check := Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: started,
	}

	if err := fn(ctx); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		h.logger.Warn("Health check failed",
			zap.String("check", name),
			zap.Error(err),
		)
	}
	check.Duration = time.Since(started) / time.Millisecond

	return check
}

// Handler serves the full aggregated health report.
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
	}
}

// ReadinessHandler reports ready only when every probe passes.
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if response.Status != StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
