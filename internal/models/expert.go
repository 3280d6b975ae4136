package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MinExpertAge is the youngest age accepted on an expert profile.
const MinExpertAge = 50

// DefaultServiceCategory is stored when a profile is created without one.
const DefaultServiceCategory = "otro"

type ExpertStatus string

const (
	ExpertStatusAvailable   ExpertStatus = "available"
	ExpertStatusBusy        ExpertStatus = "busy"
	ExpertStatusUnavailable ExpertStatus = "unavailable"
)

func (s ExpertStatus) IsValid() bool {
	switch s {
	case ExpertStatusAvailable, ExpertStatusBusy, ExpertStatusUnavailable:
		return true
	}
	return false
}

// listedStatuses are the statuses shown in listings, in ranking order.
var listedStatuses = []ExpertStatus{ExpertStatusAvailable, ExpertStatusBusy}

// Priority is the ranking position of a status: available before busy.
func (s ExpertStatus) Priority() int {
	for i, listed := range listedStatuses {
		if s == listed {
			return i
		}
	}
	return len(listedStatuses)
}

// StatusRankSQL is an ORDER BY expression ranking column by Priority.
func StatusRankSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE " + column)
	for _, s := range listedStatuses {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, s.Priority())
	}
	fmt.Fprintf(&b, " ELSE %d END", len(listedStatuses))
	return b.String()
}

type Modality string

const (
	ModalityInPerson Modality = "presencial"
	ModalityRemote   Modality = "remoto"
	ModalityBoth     Modality = "ambos"
)

func (m Modality) IsValid() bool {
	switch m {
	case ModalityInPerson, ModalityRemote, ModalityBoth:
		return true
	}
	return false
}

// ServedBy lists the offered modalities that can attend a request for m.
// A nil result means any modality will do.
func (m Modality) ServedBy() []Modality {
	if m == "" || m == ModalityBoth {
		return nil
	}
	return []Modality{m, ModalityBoth}
}

type MembershipType string

const (
	MembershipFree    MembershipType = "free"
	MembershipPremium MembershipType = "premium"
)

func (m MembershipType) IsValid() bool {
	return m == MembershipFree || m == MembershipPremium
}

// Featured is the is_featured value implied by the membership tier.
func (m MembershipType) Featured() bool {
	return m == MembershipPremium
}

// Expert is the public profile of a user with role expert. Rating and
// TotalRatings are written only by the rating aggregator.
type Expert struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"userId"`
	Name            string         `gorm:"not null" json:"name"`
	Age             int            `gorm:"not null" json:"age"`
	Service         string         `gorm:"type:text;not null" json:"service"`
	ServiceCategory string         `gorm:"type:varchar(50);index;not null;default:'otro'" json:"serviceCategory"`
	Experience      string         `gorm:"type:text;not null" json:"experience"`
	Modality        Modality       `gorm:"type:varchar(20);not null" json:"modality"`
	Zone            string         `gorm:"type:varchar(100);index;not null" json:"zone"`
	Schedule        string         `gorm:"type:text;not null" json:"schedule"`
	Contact         string         `gorm:"type:varchar(100)" json:"contact"`
	Status          ExpertStatus   `gorm:"type:varchar(20);index;not null;default:'available'" json:"status"`
	Avatar          string         `gorm:"type:varchar(4)" json:"avatar"`
	Rating          float64        `gorm:"type:numeric(2,1);not null;default:0" json:"rating"`
	TotalRatings    int            `gorm:"not null;default:0" json:"totalRatings"`
	MembershipType  MembershipType `gorm:"type:varchar(20);not null;default:'free'" json:"membershipType"`
	IsFeatured      bool           `gorm:"not null;default:false" json:"isFeatured"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// AvatarInitials returns the upper-cased first letters of the first two words of name.
func AvatarInitials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		if n == 2 {
			break
		}
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}
