package bootstrap

import (
	"log/slog"

	"github.com/mo-amir99/lms-progress-server-go/pkg/cache"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
)

// NewCache connects to Redis when configured and falls back to the
// in-process cache otherwise.
func NewCache(cfg config.RedisConfig, logger *slog.Logger) cache.Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, using in-memory cache")
		return cache.NewMemoryCache()
	}

	client, err := cache.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache",
			slog.String("addr", cfg.Addr),
			slog.String("error", err.Error()),
		)
		return cache.NewMemoryCache()
	}

	logger.Info("redis cache connected", slog.String("addr", cfg.Addr))
	return client
}
