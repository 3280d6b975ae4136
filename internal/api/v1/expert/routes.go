package expert

import (
	"plateada-backend/internal/middleware"
	"plateada-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes mounts the listing, which needs no token.
func RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/experts", ListExperts)
}

func RegisterRoutes(router *gin.RouterGroup) {
	experts := router.Group("/experts")
	experts.GET("/me", Dashboard)

	owner := experts.Group("")
	owner.Use(middleware.RequireRole(models.RoleExpert))
	{
		owner.POST("", CreateExpert)
		owner.PUT("/profile", UpdateProfileField)
		owner.PUT("/status", UpdateStatus)
		owner.PUT("/membership", UpdateMembership)
		owner.GET("/me/sessions", ListOwnSessions)
	}
}
