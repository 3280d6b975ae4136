package middleware

import (
	"errors"
	"net/http"

	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"
	"plateada-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InsufficientCreditsData is the body of a 402 so the client can offer a top-up.
type InsufficientCreditsData struct {
	Credits  int `json:"credits"`
	Required int `json:"required"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrInvalidStatus, http.StatusBadRequest},
	{services.ErrInvalidMembership, http.StatusBadRequest},
	{services.ErrInvalidAmount, http.StatusBadRequest},
	{services.ErrSessionNotEligible, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrUserNotFound, http.StatusNotFound},
	{services.ErrExpertNotFound, http.StatusNotFound},
	{services.ErrSessionNotFound, http.StatusNotFound},
	{services.ErrUserAlreadyExists, http.StatusConflict},
	{services.ErrDuplicateProfile, http.StatusConflict},
	{services.ErrNonEditableField, http.StatusConflict},
	{services.ErrIllegalTransition, http.StatusConflict},
	{services.ErrDuplicateRating, http.StatusConflict},
}

// AbortWithError writes the failure response for err and stops the chain.
// Unknown errors are logged and reported without detail.
func AbortWithError(c *gin.Context, err error) {
	var insufficient *services.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		c.AbortWithStatusJSON(http.StatusPaymentRequired, utils.NewResponse(http.StatusPaymentRequired, "Insufficient credits", InsufficientCreditsData{
			Credits:  insufficient.Balance,
			Required: insufficient.Required,
		}))
		return
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.AbortWithStatusJSON(e.status, utils.NewErrorResponse(e.status, err.Error()))
			return
		}
	}

	_ = c.Error(err)
	logger.Log.Error("request failed",
		zap.String("request_id", c.GetString(ContextRequestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
}
