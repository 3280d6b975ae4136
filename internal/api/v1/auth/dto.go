package auth

import "plateada-backend/internal/models"

type RegisterRequest struct {
	Email       string      `json:"email" binding:"required"`
	Password    string      `json:"password" binding:"required"`
	DisplayName string      `json:"displayName" binding:"required"`
	Role        models.Role `json:"role" binding:"required,oneof=client expert"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
