package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	sessions.POST("", CreateSession)
	sessions.GET("", ListSessions)
	sessions.PATCH("", TransitionSession)
	sessions.GET("/:id", GetSession)
}
