package services

import (
	"errors"
	"strings"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/internal/utils"
	"plateada-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

var inputValidator = validator.New()

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        models.Role
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.DisplayName) == "" || in.Role == "" {
		return validationError("email, password, displayName and role are required")
	}
	if !in.Role.IsValid() {
		return validationError("role must be client or expert")
	}
	if err := inputValidator.Var(strings.TrimSpace(in.Email), "email"); err != nil {
		return validationError("email is not a valid address")
	}
	if len(in.Password) < MinPasswordLength {
		return validationError("password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// RegisterUser creates the account and books its welcome grant in the same
// transaction, so a client never exists without the matching ledger row.
func RegisterUser(input RegisterInput) (*models.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	email := NormalizeEmail(input.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:       email,
		Password:    string(hashedPassword),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        input.Role,
		Credits:     0,
		Version:     1,
	}

	var welcome *models.CreditTransaction
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return duplicateAs(err, ErrUserAlreadyExists)
		}

		if grant := input.Role.WelcomeGrant(); grant > 0 {
			entry, err := applyEntry(tx, ledgerEntry{
				UserID: user.ID,
				Amount: grant,
				Type:   models.TransactionTypeWelcome,
				Actor:  SystemActor,
			})
			if err != nil {
				return err
			}
			welcome = entry
			user.Credits = entry.BalanceAfter
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if welcome != nil {
		afterLedgerCommit(welcome)
	}
	logger.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	return user, nil
}

// LoginUser checks the password and issues a bearer token.
func LoginUser(email, password string) (string, *models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, validationError("email and password are required")
	}

	user, err := FindUserByEmail(email)
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
