package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateSessionInput is a client's request for time with an expert.
type CreateSessionInput struct {
	ExpertID          uint
	RequestedDate     string
	RequestedTime     string
	RequestedDuration string
}

func (in *CreateSessionInput) validate() error {
	if in.ExpertID == 0 {
		return validationError("expertId is required")
	}
	in.RequestedDate = strings.TrimSpace(in.RequestedDate)
	if in.RequestedDate == "" {
		return validationError("requestedDate is required")
	}
	if _, err := time.Parse(models.RequestedDateLayout, in.RequestedDate); err != nil {
		return validationError("requestedDate must use the YYYY-MM-DD format")
	}
	in.RequestedTime = strings.TrimSpace(in.RequestedTime)
	in.RequestedDuration = strings.TrimSpace(in.RequestedDuration)
	if in.RequestedDuration == "" {
		in.RequestedDuration = models.DefaultSessionDuration
	}
	return nil
}

// CreateSession inserts a pending session and charges the client for it in
// the same transaction. It returns the session and the client's remaining
// balance. When the balance is short nothing is written.
func CreateSession(actor Actor, input CreateSessionInput) (*models.SessionRequest, int, error) {
	if actor.Role != models.RoleClient {
		return nil, 0, ErrForbidden
	}
	if err := input.validate(); err != nil {
		return nil, 0, err
	}

	session := &models.SessionRequest{
		ClientID:          actor.UserID,
		ExpertID:          input.ExpertID,
		Status:            models.SessionStatusPending,
		RequestedDate:     input.RequestedDate,
		RequestedTime:     input.RequestedTime,
		RequestedDuration: input.RequestedDuration,
		CreditsCost:       models.SessionCreditCost,
	}

	var charge *models.CreditTransaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var expert models.Expert
		if err := tx.Select("id", "user_id").First(&expert, input.ExpertID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpertNotFound
			}
			return err
		}
		if expert.UserID == actor.UserID {
			return ErrForbidden
		}

		var client models.User
		if err := database.ForUpdate(tx).Select("id", "credits").First(&client, actor.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if client.Credits < session.CreditsCost {
			return &InsufficientCreditsError{Balance: client.Credits, Required: session.CreditsCost}
		}

		if err := tx.Create(session).Error; err != nil {
			return err
		}

		var err error
		charge, err = applyEntry(tx, ledgerEntry{
			UserID:    actor.UserID,
			Amount:    -session.CreditsCost,
			Type:      models.TransactionTypeSessionCharge,
			SessionID: &session.ID,
			Actor:     actor,
		})
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	afterLedgerCommit(charge)
	logger.Log.Info("session requested",
		zap.Uint("session_id", session.ID),
		zap.Uint("client_id", session.ClientID),
		zap.Uint("expert_id", session.ExpertID),
	)
	return session, charge.BalanceAfter, nil
}

func AcceptSession(actor Actor, sessionID uint) (*models.SessionRequest, error) {
	return TransitionSession(actor, sessionID, models.SessionStatusAccepted)
}

func RejectSession(actor Actor, sessionID uint) (*models.SessionRequest, error) {
	return TransitionSession(actor, sessionID, models.SessionStatusRejected)
}

func CompleteSession(actor Actor, sessionID uint) (*models.SessionRequest, error) {
	return TransitionSession(actor, sessionID, models.SessionStatusCompleted)
}

// DisputeSession only records the status; a disputed session is not refunded.
func DisputeSession(actor Actor, sessionID uint) (*models.SessionRequest, error) {
	return TransitionSession(actor, sessionID, models.SessionStatusDisputed)
}

// TransitionSession moves a session to next if the transition table allows it
// and the actor may trigger it. Rejection refunds the stored credits cost to
// the client within the same transaction.
func TransitionSession(actor Actor, sessionID uint, next models.SessionStatus) (*models.SessionRequest, error) {
	if !next.IsTransitionTarget() {
		return nil, ErrInvalidStatus
	}

	var session models.SessionRequest
	var refund *models.CreditTransaction
	var previous models.SessionStatus

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		var expert models.Expert
		if err := tx.Select("id", "user_id").First(&expert, session.ExpertID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpertNotFound
			}
			return err
		}
		if !mayTransition(actor, &session, &expert, next) {
			return ErrForbidden
		}

		previous = session.Status
		if !previous.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, previous, next)
		}

		updates := map[string]interface{}{"status": next}
		if next == models.SessionStatusCompleted {
			updates["completed_at"] = time.Now().UTC()
		}
		result := tx.Model(&models.SessionRequest{}).
			Where("id = ? AND status = ?", session.ID, previous).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, previous, next)
		}

		if next == models.SessionStatusRejected {
			var err error
			refund, err = applyEntry(tx, ledgerEntry{
				UserID:    session.ClientID,
				Amount:    session.CreditsCost,
				Type:      models.TransactionTypeSessionRefund,
				SessionID: &session.ID,
				Actor:     actor,
			})
			if err != nil {
				return err
			}
		}

		return tx.First(&session, session.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if refund != nil {
		afterLedgerCommit(refund)
	}
	logger.Log.Info("session transitioned",
		zap.Uint("session_id", session.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
		zap.Uint("actor_id", actor.UserID),
	)
	return &session, nil
}

// mayTransition: the expert decides on pending requests, either side may
// confirm completion, and only the client may dispute.
func mayTransition(actor Actor, session *models.SessionRequest, expert *models.Expert, next models.SessionStatus) bool {
	isClient := actor.UserID == session.ClientID
	isExpert := actor.UserID == expert.UserID
	switch next {
	case models.SessionStatusAccepted, models.SessionStatusRejected:
		return isExpert
	case models.SessionStatusCompleted:
		return isClient || isExpert
	case models.SessionStatusDisputed:
		return isClient
	}
	return false
}

// SessionWithExpert is a session as listed for its client.
type SessionWithExpert struct {
	models.SessionRequest
	ExpertName    string `json:"expertName"`
	ExpertService string `json:"expertService"`
}

// ListClientSessions returns the client's own sessions, newest first.
func ListClientSessions(clientID uint) ([]SessionWithExpert, error) {
	rows := make([]SessionWithExpert, 0)
	err := database.DB.Table("sessions").
		Select("sessions.*, experts.name AS expert_name, experts.service AS expert_service").
		Joins("JOIN experts ON experts.id = sessions.expert_id").
		Where("sessions.client_id = ?", clientID).
		Order("sessions.created_at DESC").
		Order("sessions.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSessionByID loads a session visible to the actor: its client or the
// owner of the expert profile it is addressed to.
func GetSessionByID(actor Actor, sessionID uint) (*models.SessionRequest, error) {
	var session models.SessionRequest
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.ClientID == actor.UserID {
		return &session, nil
	}
	expert, err := FindExpertByID(session.ExpertID)
	if err != nil {
		return nil, err
	}
	if expert.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return &session, nil
}
