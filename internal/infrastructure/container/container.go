// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/nutriplan/backend/internal/application/grocery"
	"github.com/nutriplan/backend/internal/application/planner"
	"github.com/nutriplan/backend/internal/application/profile"
	"github.com/nutriplan/backend/internal/application/recipe"
	"github.com/nutriplan/backend/internal/application/tracker"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	domainprofile "github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/infrastructure/config"
	"github.com/nutriplan/backend/internal/infrastructure/events"
	"github.com/nutriplan/backend/internal/infrastructure/http/apiserver"
	"github.com/nutriplan/backend/internal/infrastructure/http/middleware"
	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	gormrepo "github.com/nutriplan/backend/internal/infrastructure/persistence/gorm"
	"github.com/nutriplan/backend/internal/infrastructure/persistence/memory"
	"github.com/nutriplan/backend/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/nutriplan/backend/internal/infrastructure/persistence/redis"
	"github.com/nutriplan/backend/internal/infrastructure/persistence/sqlite"
	"github.com/nutriplan/backend/internal/infrastructure/security"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/healthcheck"
	"github.com/nutriplan/backend/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Event modules
	EventModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigPath is the config file passed to config.Load; empty searches the
// default locations
type ConfigPath string

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(
	NewDatabase,
)

// NewDatabase opens PostgreSQL or SQLite, applies the schema and optionally
// seeds demo recipes. The connection is closed when the app stops.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB

	switch cfg.Database.Driver {
	case "postgres":
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
		db = cm.DB()

	default:
		var err error
		db, err = sqlite.SetupDatabase(cfg.GetDSN(),
			gormrepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.GetDSN()),
			zap.Bool("in_memory", cfg.GetDSN() == ":memory:"),
		)
	}

	if cfg.Database.SeedDemoData {
		if err := sqlite.SeedDatabase(context.Background(), db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}

	return db, nil
}

const memoryCacheSweep = time.Minute

// CacheModule provides the cache backing weekly summaries and token revocation
var CacheModule = fx.Provide(
	NewCache,
)

// NewCache uses Redis when it is configured and the in-process cache otherwise
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck) (outbound.CacheRepository, error) {
	if cfg.GetRedisAddr() == "" {
		log.Info("Using in-memory cache")
		cache := memory.NewCacheRepository(memoryCacheSweep)
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			cache.Close()
			return nil
		}})
		return cache, nil
	}

	client, err := redisrepo.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
	health.Register("redis", healthcheck.NewRedisChecker(client))

	return redisrepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log), nil
}

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	NewTracingProvider,
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// NewTracingProvider installs tracing from the monitoring settings and
// flushes pending spans on stop
func NewTracingProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tracing, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
		Insecure:       cfg.Monitoring.OTLPInsecure,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tracing.Shutdown})
	return tracing, nil
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewProfileRepository,
	gormrepo.NewRecipeRepository,
	gormrepo.NewMealPlanRepository,
	gormrepo.NewNutritionLogRepository,
	gormrepo.NewGroceryListRepository,
)

// EventModule provides the domain event dispatcher
var EventModule = fx.Provide(
	NewEventDispatcher,
)

// NewEventDispatcher creates the dispatcher and subscribes the business
// event log and the metrics collector to every event
func NewEventDispatcher(log *zap.Logger, metrics *monitoring.MetricsCollector) outbound.EventPublisher {
	dispatcher := events.NewDispatcher(log)
	dispatcher.Register(events.AllEvents, monitoring.BusinessEventLogger(log))
	dispatcher.Register(events.AllEvents, metrics.HandleEvent)
	return dispatcher
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	NewGenerator,
	profile.NewProfileService,
	recipe.NewRecipeService,
	grocery.NewGroceryService,
	func(
		profiles outbound.ProfileRepository,
		recipes outbound.RecipeRepository,
		plans outbound.MealPlanRepository,
		generator *mealplan.Generator,
		publisher outbound.EventPublisher,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.PlannerService {
		return planner.NewPlannerService(profiles, recipes, plans, generator, publisher, metrics, log)
	},
	fx.Annotate(
		func(
			logs outbound.NutritionLogRepository,
			profiles outbound.ProfileRepository,
			recipes outbound.RecipeRepository,
			cache outbound.CacheRepository,
			publisher outbound.EventPublisher,
			metrics *monitoring.MetricsCollector,
			cfg *config.Config,
			log *zap.Logger,
		) *tracker.TrackerService {
			return tracker.NewTrackerService(logs, profiles, recipes, cache, publisher, metrics, TrackerConfig(cfg), log)
		},
		fx.As(new(inbound.TrackerService)),
	),
)

// NewGenerator builds the meal plan generator from the planner settings. A
// non-zero seed makes generation reproducible.
func NewGenerator(cfg *config.Config) *mealplan.Generator {
	opts := []mealplan.Option{
		mealplan.WithCandidateLimit(cfg.Planner.CandidateLimit),
		mealplan.WithMealsPerDay(cfg.Planner.MealsPerDay),
		mealplan.WithMaxDuration(cfg.Planner.MaxDurationDays),
	}
	if cfg.Planner.Seed != 0 {
		opts = append(opts, mealplan.WithSeed(uint64(cfg.Planner.Seed)))
	}
	return mealplan.NewGenerator(opts...)
}

// TrackerConfig maps the tracker settings
func TrackerConfig(cfg *config.Config) tracker.Config {
	return tracker.Config{
		DefaultTargets: domainprofile.MacroTargets{
			DailyCalories: cfg.Tracker.DefaultCalories,
			ProteinG:      cfg.Tracker.DefaultProtein,
			CarbsG:        cfg.Tracker.DefaultCarbs,
			FatsG:         cfg.Tracker.DefaultFats,
		},
		SummaryCacheTTL: cfg.Tracker.SummaryCacheTTL,
	}
}

// HTTPModule provides HTTP server and its collaborators
var HTTPModule = fx.Provide(
	func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) *security.AuthService {
		return security.NewAuthService(cfg.Auth, cache, log)
	},
	func(lc fx.Lifecycle, cfg *config.Config) *middleware.RateLimiter {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			limiter.Close()
			return nil
		}})
		return limiter
	},
	func(
		profiles inbound.ProfileService,
		recipes inbound.RecipeService,
		plans inbound.PlannerService,
		journal inbound.TrackerService,
		lists inbound.GroceryService,
	) apiserver.Services {
		return apiserver.Services{
			Profiles: profiles,
			Recipes:  recipes,
			Planner:  plans,
			Tracker:  journal,
			Grocery:  lists,
		}
	},
	apiserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterHealthChecks,
	RegisterLifecycleHooks,
)

// RegisterHealthChecks adds the database to the readiness checks
func RegisterHealthChecks(db *gorm.DB, health *healthcheck.HealthCheck) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	return nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting NutriPlan",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down NutriPlan")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
