package rating

import (
	"net/http"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// SubmitRating godoc
// @Summary Rate a completed session
// @Description The session's client rates its expert once. The expert's average is recomputed.
// @Tags ratings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body SubmitRatingRequest true "Scores 1 to 5"
// @Success 201 {object} utils.Response{data=models.Rating}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /ratings [post]
func SubmitRating(c *gin.Context) {
	var input SubmitRatingRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	rating, err := services.SubmitRating(middleware.ActorFrom(c), services.SubmitRatingInput{
		SessionID:   input.SessionID,
		RatedID:     input.RatedID,
		Quality:     input.Quality,
		Clarity:     input.Clarity,
		Punctuality: input.Punctuality,
		Overall:     input.Overall,
		Comment:     input.Comment,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Rating submitted successfully", rating))
}
