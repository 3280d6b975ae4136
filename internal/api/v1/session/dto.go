package session

import "plateada-backend/internal/models"

type CreateSessionRequest struct {
	ExpertID          uint   `json:"expertId" binding:"required"`
	RequestedDate     string `json:"requestedDate" binding:"required,datetime=2006-01-02"`
	RequestedTime     string `json:"requestedTime"`
	RequestedDuration string `json:"requestedDuration"`
}

type CreateSessionResponse struct {
	Session          *models.SessionRequest `json:"session"`
	RemainingCredits int                    `json:"remainingCredits"`
}

type TransitionRequest struct {
	SessionID uint                 `json:"sessionId" binding:"required"`
	Status    models.SessionStatus `json:"status" binding:"required"`
}
