package auth

import (
	"net/http"
	"time"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Register godoc
// @Summary Register a new user
// @Description Create a client or expert account. Clients receive the welcome credits.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input     body   RegisterRequest  true  "Register Input"
// @Success 201 {object} utils.Response{data=AuthResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/register [post]
func Register(c *gin.Context) {
	var input RegisterRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	u, err := services.RegisterUser(services.RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        input.Role,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	token, err := utils.GenerateToken(u)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "User registered successfully", AuthResponse{
		Token: token,
		User:  *u,
	}))
}

// Login godoc
// @Summary Log in a user
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input     body   LoginRequest  true  "Login Input"
// @Success 200 {object} utils.Response{data=AuthResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var input LoginRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	token, u, err := services.LoginUser(input.Email, input.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged in successfully", AuthResponse{
		Token: token,
		User:  *u,
	}))
}

// Logout godoc
// @Summary Log out a user
// @Description Revoke the current token until it expires
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.ContextTokenKey)
	v, _ := c.Get(middleware.ContextClaimsKey)
	claims, ok := v.(*utils.Claims)
	if tokenString == "" || !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	remaining := utils.TokenTTL
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}

	if err := services.AddToDenylist(tokenString, remaining); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Logged out successfully", nil))
}
