package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
)

const (
	DefaultTransactionPageSize = 20
	MaxTransactionPageSize     = 100
)

// TransactionFilter narrows a user's credit history. UserID is mandatory;
// a caller only ever sees their own entries.
type TransactionFilter struct {
	UserID    uint
	Type      *models.TransactionType
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

func (f *TransactionFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultTransactionPageSize
	}
	if f.Limit > MaxTransactionPageSize {
		f.Limit = MaxTransactionPageSize
	}
}

// FindTransactions returns a page of ledger entries, newest first, and the
// total number of matching entries.
func FindTransactions(filter TransactionFilter) ([]models.CreditTransaction, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, validationError("user is required")
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, 0, validationError("unknown transaction type %q", *filter.Type)
	}
	filter.normalize()

	var transactions []models.CreditTransaction
	var total int64

	query := database.DB.Model(&models.CreditTransaction{}).Where("user_id = ?", filter.UserID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("id desc").Limit(filter.Limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// GenerateTransactionCSV renders ledger entries as a CSV export.
func GenerateTransactionCSV(transactions []models.CreditTransaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Time", "User ID", "Type", "Amount", "Balance After", "Session ID", "Metadata", "Hash"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range transactions {
		sessionID := ""
		if t.SessionID != nil {
			sessionID = strconv.FormatUint(uint64(*t.SessionID), 10)
		}
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.UTC().Format(time.RFC3339Nano),
			fmt.Sprintf("%d", t.UserID),
			string(t.Type),
			strconv.Itoa(t.Amount),
			strconv.Itoa(t.BalanceAfter),
			sessionID,
			string(t.Metadata),
			t.Hash,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
