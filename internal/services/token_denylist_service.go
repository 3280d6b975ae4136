package services

import (
	"errors"
	"time"

	"plateada-backend/internal/database"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "denylist:"

// AddToDenylist revokes a token until it would have expired anyway.
func AddToDenylist(tokenString string, expiration time.Duration) error {
	if database.RedisClient == nil {
		return errors.New("token denylist is not configured")
	}
	if expiration <= 0 {
		return nil
	}
	return database.RedisClient.Set(database.Ctx, denylistPrefix+tokenString, 1, expiration).Err()
}

func IsDenylisted(tokenString string) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}
	val, err := database.RedisClient.Get(database.Ctx, denylistPrefix+tokenString).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
