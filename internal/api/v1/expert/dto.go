package expert

import "plateada-backend/internal/models"

type CreateExpertRequest struct {
	Name            string          `json:"name" binding:"required"`
	Age             int             `json:"age" binding:"required"`
	Service         string          `json:"service" binding:"required"`
	ServiceCategory string          `json:"serviceCategory"`
	Experience      string          `json:"experience" binding:"required"`
	Modality        models.Modality `json:"modality" binding:"required"`
	Zone            string          `json:"zone" binding:"required"`
	Schedule        string          `json:"schedule" binding:"required"`
	Contact         string          `json:"contact"`
}

type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type UpdateStatusRequest struct {
	Status models.ExpertStatus `json:"status" binding:"required"`
}

type UpdateMembershipRequest struct {
	MembershipType models.MembershipType `json:"membershipType" binding:"required"`
}

type UpdateFieldResponse struct {
	Success bool `json:"success"`
}

type UpdateStatusResponse struct {
	Success bool                `json:"success"`
	Status  models.ExpertStatus `json:"status"`
}

type UpdateMembershipResponse struct {
	Success        bool                  `json:"success"`
	MembershipType models.MembershipType `json:"membershipType"`
	IsFeatured     bool                  `json:"isFeatured"`
}
