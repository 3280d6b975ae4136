package middleware

import (
	"errors"
	"net/http"

	"plateada-backend/internal/models"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"
	"plateada-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey   = "user"
	ContextTokenKey  = "token"
	ContextClaimsKey = "claims"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, err.Error()))
			c.Abort()
			return
		}

		isDenylisted, err := services.IsDenylisted(tokenString)
		if err != nil {
			logger.Log.Error("denylist lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to check token status"))
			c.Abort()
			return
		}
		if isDenylisted {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Token has been revoked"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		user, err := services.FindUserByID(claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "User not found"))
			} else {
				logger.Log.Error("user lookup failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, tokenString)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// ActorFrom builds the explicit caller context handed to services.
func ActorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{
		RequestID: c.GetString(ContextRequestIDKey),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if user, ok := CurrentUser(c); ok {
		actor.UserID = user.ID
		actor.Role = user.Role
	}
	return actor
}
