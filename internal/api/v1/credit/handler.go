package credit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"plateada-backend/internal/middleware"
	"plateada-backend/internal/models"
	"plateada-backend/internal/services"
	"plateada-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetBalance godoc
// @Summary Get credit balance
// @Tags credits
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=BalanceResponse}
// @Failure 401 {object} utils.Response
// @Router /credits [get]
func GetBalance(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	credits, err := services.GetBalance(actor.UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Balance retrieved successfully", BalanceResponse{Credits: credits}))
}

// AuditBalance godoc
// @Summary Audit own balance
// @Description Recomputes the balance from the transaction log and verifies each entry hash
// @Tags credits
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.BalanceAudit}
// @Failure 401 {object} utils.Response
// @Router /credits/audit [get]
func AuditBalance(c *gin.Context) {
	audit, err := services.ReconcileBalance(middleware.ActorFrom(c).UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Balance audited successfully", audit))
}

// PurchaseCredits godoc
// @Summary Buy credits
// @Description Simulated purchase of 1 to 50 credits
// @Tags credits
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body PurchaseRequest true "Amount"
// @Success 200 {object} utils.Response{data=BalanceResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /credits [post]
func PurchaseCredits(c *gin.Context) {
	var input PurchaseRequest
	if !utils.BindAndValidate(c, &input) {
		return
	}

	credits, err := services.PurchaseCredits(middleware.ActorFrom(c), input.Amount)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Credits purchased successfully", BalanceResponse{Credits: credits}))
}

// ListTransactions godoc
// @Summary List own credit transactions
// @Description Newest first
// @Tags credits
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param type query string false "welcome, purchase, session_charge or session_refund"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {object} utils.Response{data=TransactionListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /credits/transactions [get]
func ListTransactions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultTransactionPageSize)))
	if err != nil || limit < 1 || limit > services.MaxTransactionPageSize {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}
	filter.Page = page
	filter.Limit = limit

	transactions, total, err := services.FindTransactions(filter)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transactions retrieved successfully", TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}))
}

// ExportTransactions godoc
// @Summary Export own credit transactions
// @Tags credits
// @Produce text/csv
// @Security ApiKeyAuth
// @Param type query string false "Filter by transaction type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /credits/transactions/export [get]
func ExportTransactions(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	filter.Page = 1
	filter.Limit = services.MaxTransactionPageSize

	var all []models.CreditTransaction
	for {
		page, total, err := services.FindTransactions(filter)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			break
		}
		filter.Page++
	}

	data, err := services.GenerateTransactionCSV(all)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("credit_transactions_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func parseFilter(c *gin.Context) (services.TransactionFilter, bool) {
	filter := services.TransactionFilter{UserID: middleware.ActorFrom(c).UserID}

	if typeStr, exists := c.GetQuery("type"); exists {
		t := models.TransactionType(typeStr)
		filter.Type = &t
	}

	if startTimeStr, exists := c.GetQuery("start_time"); exists {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid start_time format"))
			return filter, false
		}
		filter.StartTime = &startTime
	}

	if endTimeStr, exists := c.GetQuery("end_time"); exists {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid end_time format"))
			return filter, false
		}
		filter.EndTime = &endTime
	}

	return filter, true
}
