package services

import (
	"errors"
	"fmt"
	"time"

	"plateada-backend/config"
	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MinPurchaseAmount = 1
	MaxPurchaseAmount = 50
)

// ledgerEntry describes one balance movement. Amount is signed.
type ledgerEntry struct {
	UserID    uint
	Amount    int
	Type      models.TransactionType
	SessionID *uint
	Actor     Actor
}

// BalanceAudit compares the cached balance with the transaction log.
type BalanceAudit struct {
	UserID       uint `json:"userId"`
	Cached       int  `json:"cached"`
	Computed     int  `json:"computed"`
	Transactions int  `json:"transactions"`
	TamperedRows int  `json:"tamperedRows"`
	Consistent   bool `json:"consistent"`
}

// GetBalance returns the cached balance on the user row.
func GetBalance(userID uint) (int, error) {
	var user models.User
	if err := database.DB.Select("id", "credits").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Credits, nil
}

// Debit removes amount credits from the user and links the entry to sessionID.
func Debit(actor Actor, userID uint, amount int, txType models.TransactionType, sessionID *uint) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return commitEntry(ledgerEntry{UserID: userID, Amount: -amount, Type: txType, SessionID: sessionID, Actor: actor})
}

// Credit adds amount credits to the user.
func Credit(actor Actor, userID uint, amount int, txType models.TransactionType, sessionID *uint) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return commitEntry(ledgerEntry{UserID: userID, Amount: amount, Type: txType, SessionID: sessionID, Actor: actor})
}

// PurchaseCredits simulates a credit pack purchase and returns the new balance.
func PurchaseCredits(actor Actor, amount int) (int, error) {
	if amount < MinPurchaseAmount || amount > MaxPurchaseAmount {
		return 0, fmt.Errorf("%w: must be between %d and %d", ErrInvalidAmount, MinPurchaseAmount, MaxPurchaseAmount)
	}
	entry, err := Credit(actor, actor.UserID, amount, models.TransactionTypePurchase, nil)
	if err != nil {
		return 0, err
	}
	return entry.BalanceAfter, nil
}

// ReconcileBalance recomputes the balance from the transaction log and checks
// every row's hash.
func ReconcileBalance(userID uint) (*BalanceAudit, error) {
	balance, err := GetBalance(userID)
	if err != nil {
		return nil, err
	}

	var entries []models.CreditTransaction
	if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}

	secret, err := ledgerSecret()
	if err != nil {
		return nil, err
	}
	audit := &BalanceAudit{UserID: userID, Cached: balance, Transactions: len(entries)}
	for i := range entries {
		audit.Computed += entries[i].Amount
		if !entries[i].VerifyHash(secret) {
			audit.TamperedRows++
		}
	}
	audit.Consistent = audit.Computed == audit.Cached && audit.TamperedRows == 0
	return audit, nil
}

func commitEntry(entry ledgerEntry) (*models.CreditTransaction, error) {
	var record *models.CreditTransaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = applyEntry(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	afterLedgerCommit(record)
	return record, nil
}

// applyEntry moves the balance and appends the log row inside tx. The user
// row is locked first so concurrent entries for the same user serialize, and
// the update is guarded so the balance can never go below zero.
func applyEntry(tx *gorm.DB, entry ledgerEntry) (*models.CreditTransaction, error) {
	if entry.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !entry.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, entry.Type)
	}
	secret, err := ledgerSecret()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := database.ForUpdate(tx).Select("id", "credits").First(&user, entry.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Credits+entry.Amount < 0 {
		return nil, &InsufficientCreditsError{Balance: user.Credits, Required: -entry.Amount}
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND credits + ? >= 0", entry.UserID, entry.Amount).
		Updates(map[string]interface{}{
			"credits": gorm.Expr("credits + ?", entry.Amount),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &InsufficientCreditsError{Balance: user.Credits, Required: -entry.Amount}
	}

	record := &models.CreditTransaction{
		UserID:       entry.UserID,
		Amount:       entry.Amount,
		BalanceAfter: user.Credits + entry.Amount,
		Type:         entry.Type,
		SessionID:    entry.SessionID,
		Metadata:     entry.Actor.metadata(),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	record.Hash = record.GenerateHash(secret)

	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// afterLedgerCommit runs once the surrounding transaction has committed.
func afterLedgerCommit(record *models.CreditTransaction) {
	InvalidateUserCache(record.UserID)
	fields := []zap.Field{
		zap.Uint("user_id", record.UserID),
		zap.Int("amount", record.Amount),
		zap.Int("balance_after", record.BalanceAfter),
		zap.String("type", string(record.Type)),
	}
	if record.SessionID != nil {
		fields = append(fields, zap.Uint("session_id", *record.SessionID))
	}
	logger.Log.Info("ledger entry applied", fields...)
}

// ledgerSecret keys the row hashes. A ledger row is never written with a
// key other than the configured one.
func ledgerSecret() (string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("load ledger secret: %w", err)
	}
	return cfg.JWTSecret, nil
}
