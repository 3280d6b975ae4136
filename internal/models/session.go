package models

import "time"

// SessionCreditCost is the flat price of one session request.
const SessionCreditCost = 1

// DefaultSessionDuration is stored when a request names no duration.
const DefaultSessionDuration = "1 hora"

// RequestedDateLayout is the wire and storage layout of SessionRequest.RequestedDate.
const RequestedDateLayout = "2006-01-02"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusAccepted  SessionStatus = "accepted"
	SessionStatusRejected  SessionStatus = "rejected"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusDisputed  SessionStatus = "disputed"
	// SessionStatusExpired is reserved; nothing transitions into it yet.
	SessionStatusExpired SessionStatus = "expired"
)

var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusPending:  {SessionStatusAccepted, SessionStatusRejected},
	SessionStatusAccepted: {SessionStatusCompleted, SessionStatusDisputed},
}

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusPending, SessionStatusAccepted, SessionStatusRejected,
		SessionStatusCompleted, SessionStatusDisputed, SessionStatusExpired:
		return true
	}
	return false
}

// IsTransitionTarget reports whether a caller may ask for s as the next status.
func (s SessionStatus) IsTransitionTarget() bool {
	switch s {
	case SessionStatusAccepted, SessionStatusRejected, SessionStatusCompleted, SessionStatusDisputed:
		return true
	}
	return false
}

// CanTransitionTo consults the legal-transition table.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SessionRequest is a client's request for time with an expert. CreditsCost
// is fixed when the row is created and is the amount refunded on rejection.
type SessionRequest struct {
	ID                uint          `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	ClientID          uint          `gorm:"index;not null" json:"clientId"`
	ExpertID          uint          `gorm:"index;not null" json:"expertId"`
	Status            SessionStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	RequestedDate     string        `gorm:"type:varchar(10);not null" json:"requestedDate"`
	RequestedTime     string        `gorm:"type:varchar(50)" json:"requestedTime"`
	RequestedDuration string        `gorm:"type:varchar(50)" json:"requestedDuration"`
	CreditsCost       int           `gorm:"not null" json:"creditsCost"`
	CompletedAt       *time.Time    `json:"completedAt"`

	Client User   `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Expert Expert `gorm:"foreignKey:ExpertID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (SessionRequest) TableName() string {
	return "sessions"
}
