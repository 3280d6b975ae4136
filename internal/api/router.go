package api

import (
	"plateada-backend/config"
	_ "plateada-backend/docs"
	"plateada-backend/internal/api/v1/auth"
	"plateada-backend/internal/api/v1/credit"
	"plateada-backend/internal/api/v1/expert"
	"plateada-backend/internal/api/v1/rating"
	"plateada-backend/internal/api/v1/session"
	userRoutes "plateada-backend/internal/api/v1/user"
	"plateada-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires every route. Database and Redis must already be connected.
func NewRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api")
	{
		auth.RegisterRoutes(v1)
		expert.RegisterPublicRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			expert.RegisterRoutes(authorized)
			credit.RegisterRoutes(authorized)
			session.RegisterRoutes(authorized)
			rating.RegisterRoutes(authorized)
		}
	}

	return router
}
