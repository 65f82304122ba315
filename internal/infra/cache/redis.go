package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/taskdeck-io/taskdeck/internal/config"
)

// New builds the Redis client backing the token revocation blacklist.
func New(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}
