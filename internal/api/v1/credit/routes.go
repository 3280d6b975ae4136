package credit

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	credits := router.Group("/credits")
	credits.GET("", GetBalance)
	credits.POST("", PurchaseCredits)
	credits.GET("/audit", AuditBalance)
	credits.GET("/transactions", ListTransactions)
	credits.GET("/transactions/export", ExportTransactions)
}
