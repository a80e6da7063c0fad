package bootstrap

import (
	"context"

	"tutorhive/internal/infra/cache"
	"tutorhive/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis may provide a nil client: the identity cache is optional and
// callers treat nil as cache-off.
func NewRedis(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client, cleanup := cache.NewRedisClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return client
}
