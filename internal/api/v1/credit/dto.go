package credit

import "plateada-backend/internal/models"

type BalanceResponse struct {
	Credits int `json:"credits"`
}

type PurchaseRequest struct {
	Amount int `json:"amount" binding:"required,min=1,max=50"`
}

type TransactionListResponse struct {
	Transactions []models.CreditTransaction `json:"transactions"`
	Total        int64                      `json:"total"`
	Page         int                        `json:"page"`
	Limit        int                        `json:"limit"`
}
