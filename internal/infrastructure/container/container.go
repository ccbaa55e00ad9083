// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/springdish/v1/internal/application/auth"
	"github.com/springdish/v1/internal/application/pantry"
	"github.com/springdish/v1/internal/application/recipe"
	"github.com/springdish/v1/internal/infrastructure/ai/openai"
	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/springdish/v1/internal/infrastructure/http/apiserver"
	"github.com/springdish/v1/internal/infrastructure/identity/kakao"
	"github.com/springdish/v1/internal/infrastructure/monitoring"
	gormrepo "github.com/springdish/v1/internal/infrastructure/persistence/gorm"
	"github.com/springdish/v1/internal/infrastructure/persistence/memory"
	"github.com/springdish/v1/internal/infrastructure/persistence/migrations"
	"github.com/springdish/v1/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/springdish/v1/internal/infrastructure/persistence/redis"
	"github.com/springdish/v1/internal/infrastructure/persistence/sqlite"
	"github.com/springdish/v1/internal/infrastructure/security"
	"github.com/springdish/v1/internal/infrastructure/video/youtube"
	"github.com/springdish/v1/internal/ports/outbound"
	"github.com/springdish/v1/pkg/healthcheck"
	"github.com/springdish/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	AdapterModule,
	ServiceModule,
	HTTPModule,
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

// DatabaseModule provides the database connection. Postgres is the
// production driver; anything else falls back to embedded SQLite.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		if cfg.Database.Driver == "postgres" {
			return setupPostgres(cfg, log)
		}
		return setupSQLite(cfg, log)
	},
)

func setupPostgres(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	cm, err := postgres.NewConnectionManager(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db := cm.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	migrator, err := migrations.New(sqlDB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if err := migrator.Up(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connected to postgres database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)
	return db, nil
}

func setupSQLite(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dbPath := ""
	if cfg.Database.Database != "" {
		dbPath = cfg.Database.Database + ".db"
	}

	logLevel := gormlogger.Silent
	if cfg.App.Debug {
		logLevel = gormlogger.Info
	}

	db, err := sqlite.SetupDatabase(dbPath, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
	}

	log.Info("Connected to SQLite database",
		zap.String("path", dbPath),
		zap.Bool("in_memory", dbPath == ""),
	)
	return db, nil
}

// CacheModule provides caching. Redis when configured, otherwise an
// in-process cache good enough for a single instance.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.CacheRepository {
		if cfg.Redis.Host == "" {
			log.Info("Using in-memory cache")
			return memory.NewCacheRepository()
		}

		client := redisrepo.NewClient(cfg)
		log.Info("Using redis cache", zap.String("addr", cfg.RedisAddr()))
		return redisrepo.NewCacheRepository(client, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewUserRepository,
	gormrepo.NewIngredientRepository,
	gormrepo.NewRecipeRepository,
	gormrepo.NewStarRepository,
)

// AdapterModule provides outbound adapters for external services
var AdapterModule = fx.Provide(
	fx.Annotate(
		kakao.NewClient,
		fx.As(new(outbound.IdentityProvider)),
	),
	fx.Annotate(
		openai.NewClient,
		fx.As(new(outbound.RecipeGenerator)),
	),
	fx.Annotate(
		youtube.NewClient,
		fx.As(new(outbound.VideoSearcher)),
	),
	security.NewTokenService,
	monitoring.NewMetricsCollector,
	newHealthCheck,
)

// newHealthCheck wires dependency probes for the readiness endpoint.
func newHealthCheck(
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	cache outbound.CacheRepository,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)

	hc.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	hc.Register("cache", func(ctx context.Context) error {
		_, err := cache.Exists(ctx, "healthcheck:probe")
		return err
	})

	return hc
}

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	auth.NewAuthService,
	pantry.NewPantryService,
	recipe.NewRecipeService,
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
