package middleware

import (
	"net/http"

	"plateada-backend/internal/models"
	"plateada-backend/internal/utils"
	"plateada-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole lets the request through only for users holding one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		logger.Log.Warn("role check failed",
			zap.Uint("user_id", user.ID),
			zap.String("role", string(user.Role)),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: this action is not available for your role"))
		c.Abort()
	}
}
