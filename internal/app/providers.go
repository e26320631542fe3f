package app

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/kafka"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/alternate"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/cache"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/llm"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/preferences"
	"github.com/nguyentranbao-ct/shop-assistant/internal/repo/stores"
	"github.com/nguyentranbao-ct/shop-assistant/internal/usecase"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// newAlternateSource keeps a disabled provider as a nil interface.
func newAlternateSource(conf *config.Config, registry *stores.Registry) (usecase.AlternateSource, error) {
	src, err := alternate.New(conf, registry)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}
	return src, nil
}

func newCacheStore(lc fx.Lifecycle, conf *config.Config) (cache.Store, error) {
	if conf.Cache.Backend != "redis" {
		return cache.NewMemoryStore(conf.Cache.Capacity), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Cache.RedisAddr,
		DB:       conf.Cache.RedisDB,
		Password: conf.Cache.RedisPass,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return cache.NewRedisStore(rdb, conf.Cache.Capacity, conf.Cache.TTL), nil
}

func newResultCache(conf *config.Config, store cache.Store) usecase.ResultCache {
	return cache.NewCache(conf, store)
}

func newEventPublisher(p kafka.Publisher) usecase.EventPublisher {
	return p
}

func newPreferenceRepository(lc fx.Lifecycle, conf *config.Config) (usecase.PreferenceRepository, error) {
	if !conf.Database.Enabled {
		log.Warnf(context.Background(), "Database is disabled, preferences are kept in memory")
		return preferences.NewMemoryRepository(), nil
	}
	db, err := newMongoDB(lc, conf)
	if err != nil {
		return nil, err
	}
	return mongodb.NewPreferenceRepository(db), nil
}

func newMongoDB(lc fx.Lifecycle, conf *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, conf.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})
	return db, nil
}

func newLLMService(conf *config.Config, search usecase.SearchUsecase) (*llm.Service, error) {
	return llm.NewGenkitService(conf, search)
}

// newIntentClassifier and newStyleAdvisor turn a disabled *llm.Service into
// nil interfaces so the chat usecase falls back to heuristics.
func newIntentClassifier(s *llm.Service) usecase.IntentClassifier {
	if s == nil {
		return nil
	}
	return s
}

func newStyleAdvisor(s *llm.Service) usecase.StyleAdvisor {
	if s == nil {
		return nil
	}
	return s
}
