// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"github.com/fitplate/engine/internal/application/engagement"
	"github.com/fitplate/engine/internal/application/nutrition"
	"github.com/fitplate/engine/internal/application/planner"
	"github.com/fitplate/engine/internal/application/preference"
	"github.com/fitplate/engine/internal/application/schedule"
	"github.com/fitplate/engine/internal/application/variation"
	"github.com/fitplate/engine/internal/infrastructure/cache"
	"github.com/fitplate/engine/internal/infrastructure/config"
	"github.com/fitplate/engine/internal/infrastructure/persistence/memory"
	redisRepo "github.com/fitplate/engine/internal/infrastructure/persistence/redis"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	CacheModule,
	ServiceModule,
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

// StoreModule provides the in-memory catalog, engagement and history
// stores, bound to their outbound ports.
var StoreModule = fx.Provide(
	memory.NewRecipeCatalog,
	memory.NewEngagementStore,
	memory.NewPlanHistoryStore,
	func(c *memory.RecipeCatalog) outbound.RecipeCatalog { return c },
	func(s *memory.EngagementStore) outbound.EngagementStore { return s },
	func(h *memory.PlanHistoryStore) outbound.PlanHistoryStore { return h },
)

// CacheModule provides the score cache. Redis is preferred; when it is
// unreachable or disabled the engine falls back to the in-memory cache
// and scoring continues uncached across processes.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) outbound.CacheRepository {
		if !cfg.Features.EnableScoreCache {
			log.Info("Score cache disabled, using in-memory cache")
			return memory.NewCacheRepository()
		}

		client, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			return memory.NewCacheRepository()
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return redisRepo.NewCacheRepository(client, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Engagement scoring
	func(
		catalog outbound.RecipeCatalog,
		stats outbound.EngagementStore,
		cacheRepo outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.EngagementService {
		return engagement.NewService(catalog, stats, cacheRepo, engagement.Config{
			CacheTTL:          cfg.Scoring.CacheTTL,
			DefaultWindowDays: cfg.Scoring.DefaultWindowDays,
			DefaultLimit:      cfg.Scoring.DefaultLimit,
			ViralThreshold:    cfg.Scoring.ViralThreshold,
		}, log)
	},

	// Preference learning
	func(history outbound.PlanHistoryStore, cfg *config.Config, log *zap.Logger) inbound.PreferenceService {
		return preference.NewService(history, cfg.Planner.HistoryLimit, log)
	},

	// Nutritional optimization
	func(catalog outbound.RecipeCatalog, cfg *config.Config, log *zap.Logger) inbound.NutritionOptimizer {
		return nutrition.NewOptimizer(catalog, cfg.Planner.MaxOptimizerPasses, log)
	},

	// Plan generation
	func(
		catalog outbound.RecipeCatalog,
		prefs inbound.PreferenceService,
		optimizer inbound.NutritionOptimizer,
		log *zap.Logger,
	) inbound.PlanGenerator {
		return planner.NewService(catalog, prefs, optimizer, log)
	},

	// Scheduling
	func(log *zap.Logger) inbound.ScheduleService {
		return schedule.NewService(log)
	},

	// Variations and rotation
	func(catalog outbound.RecipeCatalog, prefs inbound.PreferenceService, log *zap.Logger) inbound.VariationService {
		return variation.NewService(catalog, prefs, log)
	},
)

// LifecycleModule wires startup and shutdown logging
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				log.Info("Engine started",
					zap.String("name", cfg.App.Name),
					zap.String("version", cfg.App.Version),
					zap.String("environment", cfg.App.Environment),
				)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info("Engine stopped")
				return nil
			},
		})
	},
)
