package services

import (
	"encoding/json"
	"fmt"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const expertListVersionKey = "experts:list:version"

// expertListVersion returns the current generation of cached listings.
// Bumping it orphans every cached page at once; they age out on their TTL.
func expertListVersion() int64 {
	if database.RedisClient == nil {
		return 0
	}
	v, err := database.RedisClient.Get(database.Ctx, expertListVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

func expertListCacheKey(version int64, filter ExpertFilter) string {
	return fmt.Sprintf("experts:list:v%d:%q|%q|%q", version, filter.Zone, filter.Modality, filter.ServiceCategory)
}

func getCachedExpertList(version int64, filter ExpertFilter) ([]models.Expert, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	val, err := database.RedisClient.Get(database.Ctx, expertListCacheKey(version, filter)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("expert list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var experts []models.Expert
	if err := json.Unmarshal([]byte(val), &experts); err != nil {
		return nil, false
	}
	return experts, true
}

// setCachedExpertList stores a page under the version read before the query,
// so a page built from data older than an invalidation is never served as new.
func setCachedExpertList(version int64, filter ExpertFilter, experts []models.Expert) {
	if database.RedisClient == nil {
		return
	}
	data, err := json.Marshal(experts)
	if err != nil {
		return
	}
	key := expertListCacheKey(version, filter)
	if err := database.RedisClient.Set(database.Ctx, key, data, ExpertListCacheDuration).Err(); err != nil {
		logger.Log.Warn("expert list cache write failed", zap.Error(err))
	}
}

// InvalidateExpertListCache must be called after any change that can move an
// expert in or out of a listing or change its rank.
func InvalidateExpertListCache() {
	if database.RedisClient == nil {
		return
	}
	if err := database.RedisClient.Incr(database.Ctx, expertListVersionKey).Err(); err != nil {
		logger.Log.Warn("expert list cache invalidation failed", zap.Error(err))
	}
}
