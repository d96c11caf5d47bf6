package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection. Each collector
// owns its registry so several can coexist in one process.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	plansGeneratedTotal prometheus.Counter
	planDaysGenerated   prometheus.Counter
	planFailuresTotal   *prometheus.CounterVec
	planStatusChanges   *prometheus.CounterVec
	mealsLoggedTotal    *prometheus.CounterVec
	mealCalories        prometheus.Histogram
	recipesCreatedTotal prometheus.Counter
	recipesModerated    *prometheus.CounterVec

	// System metrics
	cacheOperations *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),

		plansGeneratedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meal_plans_generated_total",
				Help: "Total number of meal plans generated",
			},
		),
		planDaysGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meal_plan_days_generated_total",
				Help: "Total number of plan days generated",
			},
		),
		planFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plan_generation_failures_total",
				Help: "Meal plan generations rejected, by error code",
			},
			[]string{"code"},
		),
		planStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plan_status_changes_total",
				Help: "Meal plans completed or cancelled",
			},
			[]string{"status"},
		),
		mealsLoggedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meals_logged_total",
				Help: "Total number of meals logged",
			},
			[]string{"meal_type"},
		),
		mealCalories: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "logged_meal_calories",
				Help:    "Calories of logged meals",
				Buckets: []float64{100, 250, 500, 750, 1000, 1500, 2000},
			},
		),
		recipesCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_created_total",
				Help: "Total number of recipes created",
			},
		),
		recipesModerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipes_moderated_total",
				Help: "Recipes approved or rejected",
			},
			[]string{"status"},
		),

		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Cache lookups by result",
			},
			[]string{"operation", "result"},
		),
	}
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records HTTP request metrics
func (m *MetricsCollector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordPlanFailure counts a rejected generation by error code
func (m *MetricsCollector) RecordPlanFailure(code string) {
	m.planFailuresTotal.WithLabelValues(code).Inc()
}

// RecordCacheOperation counts a cache hit, miss or error
func (m *MetricsCollector) RecordCacheOperation(operation, result string) {
	m.cacheOperations.WithLabelValues(operation, result).Inc()
}

// HandleEvent turns domain events into business metrics
func (m *MetricsCollector) HandleEvent(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case mealplan.GeneratedEvent:
		m.plansGeneratedTotal.Inc()
		m.planDaysGenerated.Add(float64(e.DurationDays))
	case mealplan.StatusChangedEvent:
		m.planStatusChanges.WithLabelValues(string(e.To)).Inc()
	case nutrition.MealLoggedEvent:
		m.mealsLoggedTotal.WithLabelValues(string(e.MealType)).Inc()
		m.mealCalories.Observe(e.Calories)
	case recipe.CreatedEvent:
		m.recipesCreatedTotal.Inc()
	case recipe.ModeratedEvent:
		m.recipesModerated.WithLabelValues(string(e.Status)).Inc()
	default:
		m.logger.Debug("No metrics for event", zap.String("event", event.EventName()))
	}
	return nil
}
