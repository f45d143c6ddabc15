package cache

import (
	"context"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Initialize picks the cache backend from configuration. An unreachable redis
// falls back to the in-memory cache so the server still boots.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache", "backend", cfg.Cache.Backend, "enabled", cfg.Cache.Enabled)

	if !cfg.Cache.Enabled || cfg.Cache.Backend != types.CacheBackendRedis {
		return NewInMemoryCache(cfg.Cache)
	}

	rc := NewRedisCache(cfg.Cache, log)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rc.Ping(ctx); err != nil {
		log.Warnw("redis unavailable, falling back to in-memory cache",
			"addr", cfg.Cache.Redis.Addr,
			"error", err,
		)
		_ = rc.Close()
		return NewInMemoryCache(cfg.Cache)
	}
	return rc
}
