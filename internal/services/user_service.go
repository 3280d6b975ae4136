package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"

	"gorm.io/gorm"
)

const userCacheDuration = time.Hour

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// FindUserByID resolves the identity behind a token. It may serve a cached
// copy, so callers that need the live balance must use GetBalance.
func FindUserByID(userID uint) (models.User, error) {
	cacheKey := userCacheKey(userID)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(user); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, userCacheDuration)
		}
	}

	return user, nil
}

// GetFreshUser reads the user straight from the database.
func GetFreshUser(userID uint) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail looks an account up case-insensitively.
func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func InvalidateUserCache(userID uint) {
	if database.RedisClient != nil {
		database.RedisClient.Del(database.Ctx, userCacheKey(userID))
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
