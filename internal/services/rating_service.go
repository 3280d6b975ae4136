package services

import (
	"errors"
	"strings"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitRatingInput carries the four 1-5 scores for a completed session.
type SubmitRatingInput struct {
	SessionID   uint
	RatedID     uint
	Quality     int
	Clarity     int
	Punctuality int
	Overall     int
	Comment     string
}

func (in SubmitRatingInput) validate() error {
	if in.SessionID == 0 || in.RatedID == 0 {
		return validationError("sessionId and ratedId are required")
	}
	scores := []struct {
		name  string
		value int
	}{
		{"quality", in.Quality},
		{"clarity", in.Clarity},
		{"punctuality", in.Punctuality},
		{"overall", in.Overall},
	}
	for _, s := range scores {
		if !models.ValidScore(s.value) {
			return validationError("%s must be between %d and %d", s.name, models.MinScore, models.MaxScore)
		}
	}
	return nil
}

// SubmitRating stores the client's rating of a completed session and
// recomputes the rated expert's aggregate in the same transaction.
func SubmitRating(actor Actor, input SubmitRatingInput) (*models.Rating, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		SessionID:   input.SessionID,
		RaterID:     actor.UserID,
		RatedID:     input.RatedID,
		Quality:     input.Quality,
		Clarity:     input.Clarity,
		Punctuality: input.Punctuality,
		Overall:     input.Overall,
		Comment:     strings.TrimSpace(input.Comment),
	}

	var expert *models.Expert
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.SessionRequest
		if err := tx.First(&session, input.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotEligible
			}
			return err
		}
		if session.Status != models.SessionStatusCompleted || session.ClientID != actor.UserID {
			return ErrSessionNotEligible
		}

		var owner models.Expert
		if err := tx.Select("id", "user_id").First(&owner, session.ExpertID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotEligible
			}
			return err
		}
		if owner.UserID != input.RatedID {
			return ErrSessionNotEligible
		}

		if err := tx.Create(rating).Error; err != nil {
			return duplicateAs(err, ErrDuplicateRating)
		}

		var err error
		expert, err = recomputeExpertRating(tx, input.RatedID)
		return err
	})
	if err != nil {
		return nil, err
	}

	InvalidateExpertListCache()
	logger.Log.Info("rating submitted",
		zap.Uint("session_id", rating.SessionID),
		zap.Uint("rated_id", rating.RatedID),
		zap.Float64("rating", expert.Rating),
		zap.Int("total_ratings", expert.TotalRatings),
	)
	return rating, nil
}

// recomputeExpertRating rebuilds the aggregate of the expert owned by
// ratedUserID from every stored rating. Replaying it is harmless.
func recomputeExpertRating(tx *gorm.DB, ratedUserID uint) (*models.Expert, error) {
	var expert models.Expert
	if err := database.ForUpdate(tx).Where("user_id = ?", ratedUserID).First(&expert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}

	var scores []int
	if err := tx.Model(&models.Rating{}).Where("rated_id = ?", ratedUserID).Pluck("overall", &scores).Error; err != nil {
		return nil, err
	}

	expert.Rating = AverageRating(scores)
	expert.TotalRatings = len(scores)
	if err := tx.Model(&models.Expert{}).Where("id = ?", expert.ID).Updates(map[string]interface{}{
		"rating":        expert.Rating,
		"total_ratings": expert.TotalRatings,
	}).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

// AverageRating is the mean of scores rounded half away from zero to one
// decimal place, or 0 when there are none.
func AverageRating(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int64
	for _, s := range scores {
		sum += int64(s)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(scores))))
	return mean.Round(1).InexactFloat64()
}
