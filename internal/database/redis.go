package database

import (
	"context"

	"plateada-backend/config"

	"github.com/go-redis/redis/v8"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// ConnectRedis opens the cache used for user lookups, expert listings and
// the logout denylist.
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	return RedisClient.Ping(Ctx).Err()
}
