package user

import (
	"net/http"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CurrentUser godoc
// @Summary Get current user
// @Description Get the caller's account with its live credit balance
// @Tags user
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.User}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/me [get]
func CurrentUser(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	// The middleware copy may come from the cache; the balance must not.
	latest, err := services.GetFreshUser(u.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", latest))
}
