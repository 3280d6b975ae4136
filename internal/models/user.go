package models

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleExpert Role = "expert"
)

// WelcomeCredits is granted once to every new client account.
const WelcomeCredits = 3

func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleExpert
}

// WelcomeGrant returns the credits a freshly registered account starts with.
func (r Role) WelcomeGrant() int {
	if r == RoleClient {
		return WelcomeCredits
	}
	return 0
}

// User is an account on either side of the marketplace. Credits is a
// projection of the user's credit_transactions and is only written together
// with a transaction row.
type User struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"not null" json:"displayName"`
	Role        Role      `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	Credits     int       `gorm:"not null;default:0" json:"credits"`
	Version     int       `gorm:"default:1" json:"-"`
}
