package models

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one client's multi-dimensional score for a completed session.
// At most one rating exists per (session, rater).
type Rating struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	SessionID   uint      `gorm:"not null;uniqueIndex:idx_ratings_session_rater" json:"sessionId"`
	RaterID     uint      `gorm:"not null;uniqueIndex:idx_ratings_session_rater" json:"raterId"`
	RatedID     uint      `gorm:"index;not null" json:"ratedId"`
	Quality     int       `gorm:"not null" json:"quality"`
	Clarity     int       `gorm:"not null" json:"clarity"`
	Punctuality int       `gorm:"not null" json:"punctuality"`
	Overall     int       `gorm:"not null" json:"overall"`
	Comment     string    `gorm:"type:text" json:"comment"`

	Session SessionRequest `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Rater   User           `gorm:"foreignKey:RaterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Rated   User           `gorm:"foreignKey:RatedID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// ValidScore reports whether v lies on the 1-5 star scale.
func ValidScore(v int) bool {
	return v >= MinScore && v <= MaxScore
}
