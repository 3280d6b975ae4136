package session

import (
	"net/http"
	"strconv"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateSession godoc
// @Summary Request a session
// @Description Books a pending session and charges one credit. Answers 402 with the balance when credits are short.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body CreateSessionRequest true "Session request"
// @Success 201 {object} utils.Response{data=CreateSessionResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 402 {object} utils.Response{data=middleware.InsufficientCreditsData}
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /sessions [post]
func CreateSession(c *gin.Context) {
	var input CreateSessionRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	session, remaining, err := services.CreateSession(middleware.ActorFrom(c), services.CreateSessionInput{
		ExpertID:          input.ExpertID,
		RequestedDate:     input.RequestedDate,
		RequestedTime:     input.RequestedTime,
		RequestedDuration: input.RequestedDuration,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Session requested successfully", CreateSessionResponse{
		Session:          session,
		RemainingCredits: remaining,
	}))
}

// ListSessions godoc
// @Summary List own sessions
// @Description The caller's sessions as a client, newest first, with expert name and service
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=[]services.SessionWithExpert}
// @Failure 401 {object} utils.Response
// @Router /sessions [get]
func ListSessions(c *gin.Context) {
	sessions, err := services.ListClientSessions(middleware.ActorFrom(c).UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Sessions retrieved successfully", sessions))
}

// GetSession godoc
// @Summary Get one session
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Success 200 {object} utils.Response{data=models.SessionRequest}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /sessions/{id} [get]
func GetSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid session id"))
		return
	}

	session, err := services.GetSessionByID(middleware.ActorFrom(c), uint(id))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Session retrieved successfully", session))
}

// TransitionSession godoc
// @Summary Change session status
// @Description pending to accepted or rejected (expert), accepted to completed (either side) or disputed (client). Rejection refunds the client.
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body TransitionRequest true "Session and next status"
// @Success 200 {object} utils.Response{data=models.SessionRequest}
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /sessions [patch]
func TransitionSession(c *gin.Context) {
	var input TransitionRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	session, err := services.TransitionSession(middleware.ActorFrom(c), input.SessionID, input.Status)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Session updated successfully", session))
}
