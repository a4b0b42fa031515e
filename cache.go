package main

import (
	"context"
	"time"

	"loan-risk/config"
	"loan-risk/logger"
	"loan-risk/repository"
)

// buildCache returns nil for the "none" backend. The returned func releases
// any connection the cache holds.
func buildCache(cfg config.CacheConfig, log logger.Logger) (repository.PredictionCache, func()) {
	ttl := config.GetDuration(cfg.TTL)
	noop := func() {}

	switch cfg.Backend {
	case config.CacheMemory:
		log.Info("prediction cache enabled", map[string]interface{}{"backend": cfg.Backend, "size": cfg.Memory.Size})
		return repository.NewLRUCache(cfg.Memory.Size, ttl), noop
	case config.CacheRedis, config.CacheTiered:
		redisCache := repository.NewRedisCache(repository.RedisCacheOptions{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       ttl,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			// predictions still work, every lookup is a miss
			log.Warn("redis unreachable", map[string]interface{}{"address": cfg.Redis.Address, "error": err.Error()})
		}
		closeFn := func() { _ = redisCache.Close() }

		log.Info("prediction cache enabled", map[string]interface{}{"backend": cfg.Backend, "address": cfg.Redis.Address})
		if cfg.Backend == config.CacheTiered {
			return repository.NewTieredCache(repository.NewLRUCache(cfg.Memory.Size, ttl), redisCache), closeFn
		}
		return redisCache, closeFn
	default:
		return nil, noop
	}
}
