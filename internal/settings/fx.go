package settings

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/config"
	"github.com/smallbiznis/telesim/internal/settings/cache"
	"github.com/smallbiznis/telesim/internal/settings/domain"
	"github.com/smallbiznis/telesim/internal/settings/registry"
	"github.com/smallbiznis/telesim/internal/settings/repository"
	"github.com/smallbiznis/telesim/internal/settings/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := reg.Register(Defaults()...); err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}

func provideCache(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) cache.Store {
	if cfg.Settings.CacheDriver == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Settings.RedisAddr,
			Password: cfg.Settings.RedisPassword,
			DB:       cfg.Settings.RedisDB,
		})
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
		log.Info("settings cache using redis", zap.String("addr", cfg.Settings.RedisAddr))
		return cache.NewRedis(client, cfg.Settings.CacheTTL)
	}
	return cache.NewMemory(cfg.Settings.CacheTTL, clk)
}

func warmCache(lc fx.Lifecycle, manager domain.Manager, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !manager.WarmCache(ctx) {
				log.Warn("settings cache warm skipped")
			}
			return nil
		},
	})
}

// Module wires the settings registry, repository, cache driver and manager.
var Module = fx.Module("settings",
	fx.Provide(provideRegistry),
	fx.Provide(provideCache),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(warmCache),
)
