// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/infrastructure/http/handlers"
	"github.com/springdish/v1/internal/infrastructure/http/middleware"
	"github.com/springdish/v1/internal/infrastructure/monitoring"
	"github.com/springdish/v1/internal/infrastructure/security"
	"github.com/springdish/v1/internal/ports/inbound"
	"github.com/springdish/v1/internal/ports/outbound"
	"github.com/springdish/v1/pkg/healthcheck"
	"go.uber.org/zap"
)

// APIServer serves the JSON API
type APIServer struct {
	config        *config.Config
	logger        *zap.Logger
	server        *http.Server
	router        *chi.Mux
	tokens        *security.TokenService
	metrics       *monitoring.MetricsCollector
	health        *healthcheck.HealthCheck
	cache         outbound.CacheRepository
	userRepo      outbound.UserRepository
	authService   inbound.AuthService
	pantryService inbound.PantryService
	recipeService inbound.RecipeService
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	tokens *security.TokenService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
	cache outbound.CacheRepository,
	userRepo outbound.UserRepository,
	authService inbound.AuthService,
	pantryService inbound.PantryService,
	recipeService inbound.RecipeService,
) *APIServer {
	server := &APIServer{
		config:        cfg,
		logger:        log,
		tokens:        tokens,
		metrics:       metrics,
		health:        health,
		cache:         cache,
		userRepo:      userRepo,
		authService:   authService,
		pantryService: pantryService,
		recipeService: recipeService,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// setupRoutes configures the API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())
	r.Use(middleware.RateLimit(s.config.RateLimit))

	if s.config.Monitoring.EnableMetrics {
		r.Use(s.metrics.Middleware())
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get(s.config.Monitoring.HealthCheckPath, s.handleHealthCheck)
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/health/full", s.health.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	authH := handlers.NewAuthAPIHandlers(s.authService, s.cache, s.logger)
	pantryH := handlers.NewPantryAPIHandlers(s.pantryService, s.logger)
	recipeH := handlers.NewRecipeAPIHandlers(s.recipeService, s.metrics, s.logger)

	authenticate := middleware.Authenticate(s.tokens, s.userRepo, s.logger)

	// Authentication routes
	r.Route("/auth", func(r chi.Router) {
		r.Get("/authorize", authH.Authorize)
		r.Get("/callback", authH.Callback)

		// Protected auth routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authH.Profile)
			r.Post("/logout", authH.Logout)
			r.Post("/unlink", authH.Unlink)
		})
	})

	// Pantry routes
	r.Route("/ingredients", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", pantryH.Register)
		r.Get("/", pantryH.List)
		r.Get("/expiring", pantryH.ListExpiring)
		r.Get("/{id}", pantryH.Get)
		r.Patch("/{id}", pantryH.Update)
		r.Delete("/{id}", pantryH.Remove)
		r.Post("/{id}/freeze", pantryH.Freeze)
		r.Post("/{id}/thaw", pantryH.Thaw)
	})

	// Recipe routes. Generation gets its own per-account throttle on
	// top of the global per-IP limit.
	r.Route("/recipes", func(r chi.Router) {
		r.Use(authenticate)
		r.With(middleware.UserRateLimit(s.config.RateLimit)).Post("/generate", recipeH.Generate)
		r.Get("/", recipeH.List)
		r.Get("/starred", recipeH.ListStarred)
		r.Get("/{id}", recipeH.Get)
		r.Delete("/{id}", recipeH.Delete)
		r.Post("/{id}/star", recipeH.ToggleStar)
		r.Post("/{id}/save", recipeH.Save)
	})
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// handleHealthCheck provides the liveness endpoint
func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":"springdish-api","timestamp":%d}`, time.Now().Unix())
}
