// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nutriplan/backend/internal/infrastructure/config"
	"github.com/nutriplan/backend/internal/infrastructure/http/handlers"
	"github.com/nutriplan/backend/internal/infrastructure/http/middleware"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/infrastructure/security"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/pkg/healthcheck"
	"go.uber.org/zap"
)

// Services groups the use cases the API exposes
type Services struct {
	Profiles inbound.ProfileService
	Recipes  inbound.RecipeService
	Planner  inbound.PlannerService
	Tracker  inbound.TrackerService
	Grocery  inbound.GroceryService
}

// Server is the JSON API HTTP server
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
	router      *chi.Mux
	services    Services
	authService *security.AuthService
	rateLimiter *middleware.RateLimiter
	metrics     *monitoring.MetricsCollector
	tracing     *monitoring.TracingProvider
	health      *healthcheck.HealthCheck
	openAPI     *OpenAPIHandler
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	services Services,
	authService *security.AuthService,
	rateLimiter *middleware.RateLimiter,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
	health *healthcheck.HealthCheck,
) *Server {
	s := &Server{
		config:      cfg,
		logger:      log.Named("api-server"),
		services:    services,
		authService: authService,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		tracing:     tracing,
		health:      health,
		openAPI:     NewOpenAPIHandler(log),
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the router
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext())
	if s.tracing != nil {
		r.Use(middleware.Tracing(s.tracing))
	}
	r.Use(middleware.Logger(s.logger))
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Use(middleware.Metrics(s.metrics))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(chimiddleware.Compress(5))

	// Operational endpoints
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.LivenessHandler())
	r.Get(s.config.Monitoring.ReadinessPath, s.health.ReadinessHandler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}
	r.Get("/api/v1/openapi.yaml", s.openAPI.ServeOpenAPISpec)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Use(middleware.AuthenticateAPI(s.authService))
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints. Every route is authenticated.
func (s *Server) setupAPIV1Routes(r chi.Router) {
	profileH := handlers.NewProfileAPIHandlers(s.services.Profiles, s.logger)
	recipeH := handlers.NewRecipeAPIHandlers(s.services.Recipes, s.config.Auth.ModeratorRole, s.logger)
	plannerH := handlers.NewPlannerAPIHandlers(s.services.Planner, s.logger)
	trackerH := handlers.NewTrackerAPIHandlers(s.services.Tracker, s.logger)
	groceryH := handlers.NewGroceryAPIHandlers(s.services.Grocery, s.logger)

	r.Post("/auth/logout", s.handleLogout)

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", profileH.GetProfile)
		r.Put("/", profileH.UpdateProfile)
		r.Get("/targets", profileH.GetTargets)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeH.ListRecipes)
		r.Post("/", recipeH.CreateRecipe)
		r.Get("/{recipeID}", recipeH.GetRecipe)
		r.Put("/{recipeID}", recipeH.UpdateRecipe)

		// Moderation
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(s.config.Auth.ModeratorRole))
			r.Get("/pending", recipeH.ListPending)
			r.Post("/{recipeID}/approve", recipeH.ApproveRecipe)
			r.Post("/{recipeID}/reject", recipeH.RejectRecipe)
		})
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", plannerH.ListPlans)
		r.With(s.limitGeneration()...).Post("/", plannerH.GeneratePlan)

		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", plannerH.GetPlan)
			r.Put("/status", plannerH.SetStatus)
			r.Put("/days/{dayNumber}/notes", plannerH.SetDayNotes)
			r.Put("/meals/consumed", plannerH.MarkMealConsumed)
			r.Put("/meals/feedback", plannerH.RateMeal)
			r.Put("/meals/schedule", plannerH.ScheduleMeal)
			r.Get("/grocery-list", plannerH.GetGroceryList)
			r.Put("/grocery-list/purchased", plannerH.SetGroceryPurchased)
		})
	})

	r.Route("/grocery-lists", func(r chi.Router) {
		r.Get("/", groceryH.ListLists)
		r.Post("/", groceryH.CreateList)
		r.Get("/{listID}", groceryH.GetList)
		r.Post("/{listID}/items", groceryH.AddItem)
		r.Put("/{listID}/items/purchased", groceryH.SetPurchased)
		r.Delete("/{listID}/items", groceryH.RemoveItem)
	})

	r.Route("/nutrition", func(r chi.Router) {
		r.Get("/today", trackerH.GetToday)
		r.Get("/weekly", trackerH.GetWeeklySummary)
		r.Post("/meals", trackerH.LogMeal)
		r.Get("/logs", trackerH.GetRange)
		r.Get("/logs/{date}", trackerH.GetDay)
		r.Put("/logs/{date}/water", trackerH.UpdateWaterIntake)
		r.Delete("/logs/{date}/meals/{mealID}", trackerH.RemoveMeal)
	})
}

// limitGeneration returns the rate limit middleware for plan generation,
// or nothing when rate limiting is disabled
func (s *Server) limitGeneration() []func(http.Handler) http.Handler {
	if s.rateLimiter == nil || !s.config.RateLimit.Enable {
		return nil
	}
	return []func(http.Handler) http.Handler{s.rateLimiter.Middleware()}
}

// handleLogout revokes the caller's token
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if ok {
		if err := s.authService.RevokeToken(r.Context(), claims); err != nil {
			s.logger.Warn("Failed to revoke token", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Server returns the underlying HTTP server instance
func (s *Server) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if timeout := s.config.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.server.Shutdown(ctx)
}
