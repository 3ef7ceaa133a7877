// Package server provides the JSON API HTTP server
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/infrastructure/http/handlers"
	"github.com/mealforge/v2/internal/infrastructure/http/middleware"
	"github.com/mealforge/v2/internal/infrastructure/persistence/postgres"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/pkg/healthcheck"
)

// Server represents the JSON API HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	server  *http.Server
	planner inbound.PlannerService
	health  *healthcheck.HealthCheck
	monitor *postgres.QueryMonitor
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	planner inbound.PlannerService,
	health *healthcheck.HealthCheck,
	monitor *postgres.QueryMonitor,
) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		planner: planner,
		health:  health,
		monitor: monitor,
	}

	s.router = s.setupRouter()

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(s.router, "mealforge-api")
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, s.config.Monitoring.HealthCheckPath, s.config.Monitoring.ReadinessPath))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Probes and metrics stay outside the rate limit.
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.LivenessHandler())
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	r.Get("/health/checks", s.health.Handler())
	if s.config.Monitoring.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Use(middleware.RateLimit(s.config.RateLimit))

		h := handlers.NewPlanHandlers(s.planner, s.logger)
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.GeneratePlan)
			r.Get("/{date}", h.GetPlan)
			r.Patch("/items/{itemID}", h.SetItemCompleted)
		})
	})

	r.Route("/debug", func(r chi.Router) {
		d := handlers.NewDebugHandlers(s.monitor, s.logger)
		r.Get("/queries/slow", d.SlowQueries)
	})

	return r
}

// Router returns the chi router, exposed for handler tests
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
