package expert

import (
	"net/http"
	"time"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/models"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListExperts godoc
// @Summary List experts
// @Description Experts that are not unavailable, featured first, then available before busy, then by rating
// @Tags experts
// @Produce json
// @Param zone query string false "Exact zone"
// @Param modality query string false "presencial, remoto or ambos"
// @Param service_category query string false "Exact service category"
// @Success 200 {object} utils.Response{data=[]models.Expert}
// @Failure 500 {object} utils.Response
// @Router /experts [get]
func ListExperts(c *gin.Context) {
	experts, err := services.ListAvailableExperts(services.ExpertFilter{
		Zone:            c.Query("zone"),
		Modality:        models.Modality(c.Query("modality")),
		ServiceCategory: c.Query("service_category"),
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Experts retrieved successfully", experts))
}

// CreateExpert godoc
// @Summary Create expert profile
// @Description Create the caller's expert profile. Expert accounts only, one profile each.
// @Tags experts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body CreateExpertRequest true "Profile"
// @Success 201 {object} utils.Response{data=models.Expert}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /experts [post]
func CreateExpert(c *gin.Context) {
	var input CreateExpertRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	expert, err := services.CreateExpertProfile(middleware.ActorFrom(c), services.CreateExpertInput{
		Name:            input.Name,
		Age:             input.Age,
		Service:         input.Service,
		ServiceCategory: input.ServiceCategory,
		Experience:      input.Experience,
		Modality:        input.Modality,
		Zone:            input.Zone,
		Schedule:        input.Schedule,
		Contact:         input.Contact,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Expert profile created successfully", expert))
}

// UpdateProfileField godoc
// @Summary Update one profile field
// @Description Editable fields: service, experience, schedule, contact, zone, modality
// @Tags experts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body UpdateFieldRequest true "Field and value"
// @Success 200 {object} utils.Response{data=UpdateFieldResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /experts/profile [put]
func UpdateProfileField(c *gin.Context) {
	var input UpdateFieldRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	actor := middleware.ActorFrom(c)
	if err := services.UpdateExpertField(actor.UserID, input.Field, input.Value); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile updated successfully", UpdateFieldResponse{Success: true}))
}

// UpdateStatus godoc
// @Summary Set availability
// @Tags experts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body UpdateStatusRequest true "available, busy or unavailable"
// @Success 200 {object} utils.Response{data=UpdateStatusResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /experts/status [put]
func UpdateStatus(c *gin.Context) {
	var input UpdateStatusRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	actor := middleware.ActorFrom(c)
	if err := services.SetExpertStatus(actor.UserID, input.Status); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Status updated successfully", UpdateStatusResponse{
		Success: true,
		Status:  input.Status,
	}))
}

// UpdateMembership godoc
// @Summary Set membership tier
// @Description Premium experts are featured at the top of listings
// @Tags experts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body UpdateMembershipRequest true "free or premium"
// @Success 200 {object} utils.Response{data=UpdateMembershipResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /experts/membership [put]
func UpdateMembership(c *gin.Context) {
	var input UpdateMembershipRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	actor := middleware.ActorFrom(c)
	expert, err := services.SetExpertMembership(actor.UserID, input.MembershipType)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Membership updated successfully", UpdateMembershipResponse{
		Success:        true,
		MembershipType: expert.MembershipType,
		IsFeatured:     expert.IsFeatured,
	}))
}

// Dashboard godoc
// @Summary Own expert dashboard
// @Description The caller's profile (or null) with pending, urgent and confirmed session counts
// @Tags experts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.ExpertDashboard}
// @Failure 401 {object} utils.Response
// @Router /experts/me [get]
func Dashboard(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	dashboard, err := services.GetExpertDashboard(actor.UserID, time.Now())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Dashboard retrieved successfully", dashboard))
}

// ListOwnSessions godoc
// @Summary Sessions addressed to the caller's profile
// @Tags experts
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Filter by session status"
// @Success 200 {object} utils.Response{data=[]services.SessionWithClient}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /experts/me/sessions [get]
func ListOwnSessions(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	sessions, err := services.ListExpertSessions(actor.UserID, models.SessionStatus(c.Query("status")))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Sessions retrieved successfully", sessions))
}
