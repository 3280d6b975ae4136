package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type TransactionType string

const (
	TransactionTypeWelcome       TransactionType = "welcome"
	TransactionTypePurchase      TransactionType = "purchase"
	TransactionTypeSessionCharge TransactionType = "session_charge"
	TransactionTypeSessionRefund TransactionType = "session_refund"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeWelcome, TransactionTypePurchase, TransactionTypeSessionCharge, TransactionTypeSessionRefund:
		return true
	}
	return false
}

// CreditTransaction is an append-only ledger row. Rows are never updated or
// deleted; the running sum of Amount per user is the user's balance.
type CreditTransaction struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time       `gorm:"precision:3" json:"createdAt"`
	UserID       uint            `gorm:"index;not null" json:"userId"`
	Amount       int             `gorm:"not null" json:"amount"`
	BalanceAfter int             `gorm:"not null" json:"balanceAfter"`
	Type         TransactionType `gorm:"type:varchar(30);index;not null" json:"type"`
	SessionID    *uint           `gorm:"index" json:"sessionId,omitempty"`
	Metadata     datatypes.JSON  `gorm:"type:json" json:"metadata,omitempty" swaggertype:"object"`
	Hash         string          `gorm:"type:varchar(64);default:''" json:"hash"`

	User    User            `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Session *SessionRequest `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// GenerateHash signs the immutable fields of the entry so later tampering
// with the row can be detected.
func (t *CreditTransaction) GenerateHash(secret string) string {
	sessionID := uint(0)
	if t.SessionID != nil {
		sessionID = *t.SessionID
	}
	data := fmt.Sprintf("%d|%d|%d|%d|%s|%d",
		t.UserID, t.CreatedAt.UnixMilli(), t.Amount, t.BalanceAfter, t.Type, sessionID)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func (t *CreditTransaction) VerifyHash(secret string) bool {
	return hmac.Equal([]byte(t.Hash), []byte(t.GenerateHash(secret)))
}
