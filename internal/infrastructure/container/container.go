// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	// Registers the pgx driver for database/sql, used by the migration runner.
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/application/planner"
	"github.com/mealforge/v2/internal/application/recommend"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/shared"
	"github.com/mealforge/v2/internal/infrastructure/ai"
	"github.com/mealforge/v2/internal/infrastructure/ai/ollama"
	"github.com/mealforge/v2/internal/infrastructure/ai/openai"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/infrastructure/http/server"
	"github.com/mealforge/v2/internal/infrastructure/monitoring"
	gormrepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v2/internal/infrastructure/persistence/memory"
	"github.com/mealforge/v2/internal/infrastructure/persistence/migrations"
	"github.com/mealforge/v2/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/mealforge/v2/internal/infrastructure/persistence/redis"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/healthcheck"
	"github.com/mealforge/v2/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	EmbeddingModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// Health and HTTP modules
	HealthModule,
	HTTPModule,

	// Event modules
	EventModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
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

// MonitoringModule provides the tracer provider and the engine metric
// collectors.
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
	func() *monitoring.EngineMetrics {
		return monitoring.NewEngineMetrics(prometheus.DefaultRegisterer)
	},
)

// DatabaseModule provides the GORM connection manager and the pgx pool
// used for vector search.
var DatabaseModule = fx.Provide(
	postgres.NewConnectionManager,
	func(cm *postgres.ConnectionManager) *gorm.DB {
		return cm.GetDB()
	},
	func(cm *postgres.ConnectionManager) *postgres.QueryMonitor {
		return cm.GetQueryMonitor()
	},
	func(cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
		return postgres.NewPgxPool(context.Background(), cfg, log)
	},
)

// CacheModule provides caching. Redis backs the cache when a host is
// configured; otherwise the in-memory repository keeps development and
// tests self-contained. The raw client is also provided for the health
// check and is nil in the in-memory case.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*goredis.Client, outbound.CacheRepository, error) {
		if cfg.Redis.Host == "" {
			log.Info("Redis not configured, using in-memory cache")
			return nil, memory.NewCacheRepository(), nil
		}

		client, err := redisrepo.NewClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return client, redisrepo.NewCacheRepository(client, log), nil
	},
)

// EmbeddingModule provides the embedding client for the configured
// provider, wrapped with the cache layer, plus its health probe.
var EmbeddingModule = fx.Provide(
	func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) (outbound.EmbeddingClient, *ai.HealthChecker, error) {
		var base outbound.EmbeddingClient
		var pinger ai.Pinger

		switch cfg.AI.Provider {
		case "openai":
			client := openai.NewClient(cfg.AI, log)
			base, pinger = client, client
		case "ollama":
			client := ollama.NewClient(cfg.AI, log)
			base, pinger = client, client
		default:
			return nil, nil, fmt.Errorf("unknown embedding provider %q", cfg.AI.Provider)
		}

		health := ai.NewHealthChecker(cfg.AI.Provider, pinger, log)
		cached := ai.NewCachedEmbeddingClient(base, cache, cfg.AI.EmbeddingModel, log)
		return cached, health, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewProfileRepository,
	gormrepo.NewGoalRepository,
	gormrepo.NewTargetRepository,
	gormrepo.NewSlotRepository,
	gormrepo.NewWorkoutRepository,
	gormrepo.NewPlanRepository,

	// Food index serves both the search port and catalog maintenance.
	fx.Annotate(
		postgres.NewFoodIndex,
		fx.As(new(outbound.FoodSearchIndex)),
		fx.As(new(outbound.FoodCatalogMaintenance)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	nutrition.NewCalculator,

	// Recommendation engine, wrapped with its instrumentation decorator.
	func(
		embedder outbound.EmbeddingClient,
		index outbound.FoodSearchIndex,
		cfg *config.Config,
		log *zap.Logger,
		tracing *monitoring.TracingProvider,
		metrics *monitoring.EngineMetrics,
	) recommend.SlotRecommender {
		engine := recommend.NewEngine(embedder, index, engineConfig(cfg), log)
		return monitoring.InstrumentSlotRecommender(engine, tracing, metrics)
	},

	// Planner service, wrapped with its instrumentation decorator.
	func(
		profiles outbound.ProfileRepository,
		goals outbound.GoalRepository,
		targets outbound.TargetRepository,
		slots outbound.SlotRepository,
		workouts outbound.WorkoutRepository,
		plans outbound.PlanRepository,
		recommender recommend.SlotRecommender,
		calculator *nutrition.Calculator,
		cache outbound.CacheRepository,
		events shared.EventDispatcher,
		log *zap.Logger,
		tracing *monitoring.TracingProvider,
		metrics *monitoring.EngineMetrics,
	) inbound.PlannerService {
		svc := planner.NewPlannerService(
			profiles, goals, targets, slots, workouts, plans,
			recommender, calculator, cache, events, log,
		)
		return monitoring.InstrumentPlanner(svc, tracing, metrics)
	},
)

// HealthModule assembles the health check with one checker per
// dependency.
var HealthModule = fx.Provide(
	func(
		cfg *config.Config,
		pool *pgxpool.Pool,
		redisClient *goredis.Client,
		embeddings *ai.HealthChecker,
		log *zap.Logger,
	) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.NewDatabaseChecker(pool))
		if redisClient != nil {
			hc.Register("redis", healthcheck.NewRedisChecker(redisClient))
		}
		hc.Register("embeddings", healthcheck.NewPingChecker(embeddings.Provider(), embeddings))
		return hc
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewServer,
)

// EventModule provides event handling
var EventModule = fx.Provide(
	fx.Annotate(
		NewEventDispatcher,
		fx.As(new(shared.EventDispatcher)),
	),
	NewEventHandlers,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterEventHandlers,
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	cm *postgres.ConnectionManager,
	pool *pgxpool.Pool,
	redisClient *goredis.Client,
	tracing *monitoring.TracingProvider,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MealForge application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cfg.Database.AutoMigrate {
				if err := runMigrations(cfg, log); err != nil {
					return fmt.Errorf("database migration failed: %w", err)
				}
			}

			// Start HTTP server
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MealForge application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			pool.Close()

			if err := cm.Close(); err != nil {
				log.Error("Failed to close database connections", zap.Error(err))
			}

			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Error("Failed to close Redis client", zap.Error(err))
				}
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}

// runMigrations applies pending schema migrations. The migrate driver
// takes ownership of the handle it is given and closes it, so it gets a
// dedicated connection instead of sharing the GORM pool.
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	migrator, err := migrations.New(db, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return migrator.Up()
}

// engineConfig maps the tunable engine settings onto the reference
// constants, keeping the defaults for anything unset.
func engineConfig(cfg *config.Config) recommend.Config {
	engine := recommend.DefaultConfig()

	if cfg.Engine.SimilarityWeight > 0 {
		engine.SimilarityWeight = cfg.Engine.SimilarityWeight
	}
	if cfg.Engine.MaxCalorieRatio > 0 {
		engine.MaxCalorieRatio = cfg.Engine.MaxCalorieRatio
	}
	if cfg.Engine.DishesPerMeal > 0 {
		engine.DishesPerMeal = cfg.Engine.DishesPerMeal
	}
	if cfg.Engine.MaxRecommendations > 0 {
		engine.MaxRecommendations = cfg.Engine.MaxRecommendations
	}
	if cfg.Engine.PoolSize > 0 {
		engine.PoolSize = cfg.Engine.PoolSize
	}
	if cfg.Engine.RepairPoolSize > 0 {
		engine.RepairPoolSize = cfg.Engine.RepairPoolSize
	}
	if cfg.Engine.MaxCategoryRepairs > 0 {
		engine.MaxCategoryRepairs = cfg.Engine.MaxCategoryRepairs
	}
	if cfg.Engine.MaxVegetableSearches > 0 {
		engine.MaxVegetableSearches = cfg.Engine.MaxVegetableSearches
	}

	return engine
}
