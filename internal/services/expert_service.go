package services

import (
	"errors"
	"strings"
	"time"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ExpertListCacheDuration = 5 * time.Minute

// ExpertFilter holds the optional discovery filters. Empty fields match everything.
type ExpertFilter struct {
	Zone            string
	Modality        models.Modality
	ServiceCategory string
}

// editableExpertFields maps the fields an owner may change to their columns.
var editableExpertFields = map[string]string{
	"service":    "service",
	"experience": "experience",
	"schedule":   "schedule",
	"contact":    "contact",
	"zone":       "zone",
	"modality":   "modality",
}

// ListAvailableExperts returns every expert that is not unavailable and
// matches all supplied filters, featured first, then available before busy,
// then by rating.
func ListAvailableExperts(filter ExpertFilter) ([]models.Expert, error) {
	filter.Zone = strings.TrimSpace(filter.Zone)
	filter.ServiceCategory = strings.TrimSpace(filter.ServiceCategory)

	version := expertListVersion()
	if experts, ok := getCachedExpertList(version, filter); ok {
		return experts, nil
	}

	query := database.DB.Model(&models.Expert{}).Where("status <> ?", models.ExpertStatusUnavailable)
	if filter.Zone != "" {
		query = query.Where("zone = ?", filter.Zone)
	}
	if offered := filter.Modality.ServedBy(); offered != nil {
		query = query.Where("modality IN ?", offered)
	}
	if filter.ServiceCategory != "" {
		query = query.Where("service_category = ?", filter.ServiceCategory)
	}

	experts := make([]models.Expert, 0)
	err := query.
		Order("is_featured DESC").
		Order(models.StatusRankSQL("status")).
		Order("rating DESC").
		Order("id ASC").
		Find(&experts).Error
	if err != nil {
		return nil, err
	}

	setCachedExpertList(version, filter, experts)
	return experts, nil
}

// CreateExpertInput carries the fields of a new profile.
type CreateExpertInput struct {
	Name            string
	Age             int
	Service         string
	ServiceCategory string
	Experience      string
	Modality        models.Modality
	Zone            string
	Schedule        string
	Contact         string
}

func (in *CreateExpertInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Service = strings.TrimSpace(in.Service)
	in.ServiceCategory = strings.TrimSpace(in.ServiceCategory)
	in.Experience = strings.TrimSpace(in.Experience)
	in.Zone = strings.TrimSpace(in.Zone)
	in.Schedule = strings.TrimSpace(in.Schedule)
	in.Contact = strings.TrimSpace(in.Contact)

	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"service", in.Service},
		{"experience", in.Experience},
		{"modality", string(in.Modality)},
		{"zone", in.Zone},
		{"schedule", in.Schedule},
	}
	for _, f := range required {
		if f.value == "" {
			return validationError("%s is required", f.name)
		}
	}
	if in.Age == 0 {
		return validationError("age is required")
	}
	if in.Age < models.MinExpertAge {
		return validationError("age must be at least %d", models.MinExpertAge)
	}
	if !in.Modality.IsValid() {
		return validationError("modality must be presencial, remoto or ambos")
	}
	if in.ServiceCategory == "" {
		in.ServiceCategory = models.DefaultServiceCategory
	}
	return nil
}

// CreateExpertProfile creates the single profile an expert user may own.
func CreateExpertProfile(actor Actor, input CreateExpertInput) (*models.Expert, error) {
	if actor.Role != models.RoleExpert {
		return nil, ErrForbidden
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	expert := &models.Expert{
		UserID:          actor.UserID,
		Name:            input.Name,
		Age:             input.Age,
		Service:         input.Service,
		ServiceCategory: input.ServiceCategory,
		Experience:      input.Experience,
		Modality:        input.Modality,
		Zone:            input.Zone,
		Schedule:        input.Schedule,
		Contact:         input.Contact,
		Status:          models.ExpertStatusAvailable,
		Avatar:          models.AvatarInitials(input.Name),
		MembershipType:  models.MembershipFree,
		IsFeatured:      models.MembershipFree.Featured(),
	}

	if err := database.DB.Create(expert).Error; err != nil {
		return nil, duplicateAs(err, ErrDuplicateProfile)
	}
	InvalidateExpertListCache()
	logger.Log.Info("expert profile created", zap.Uint("user_id", actor.UserID), zap.Uint("expert_id", expert.ID))
	return expert, nil
}

// FindExpertByID loads a profile by its own id.
func FindExpertByID(id uint) (*models.Expert, error) {
	var expert models.Expert
	if err := database.DB.First(&expert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}
	return &expert, nil
}

// FindExpertByOwner loads the profile owned by userID.
func FindExpertByOwner(userID uint) (*models.Expert, error) {
	var expert models.Expert
	if err := database.DB.Where("user_id = ?", userID).First(&expert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}
	return &expert, nil
}

// UpdateExpertField changes one allow-listed profile field of the owner's profile.
func UpdateExpertField(ownerID uint, field, value string) error {
	column, ok := editableExpertFields[field]
	if !ok {
		return ErrNonEditableField
	}

	value = strings.TrimSpace(value)
	switch field {
	case "modality":
		if !models.Modality(value).IsValid() {
			return validationError("modality must be presencial, remoto or ambos")
		}
	case "contact":
	default:
		if value == "" {
			return validationError("%s must not be empty", field)
		}
	}

	return updateOwnExpert(ownerID, map[string]interface{}{column: value})
}

// SetExpertStatus changes the owner's availability.
func SetExpertStatus(ownerID uint, status models.ExpertStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	return updateOwnExpert(ownerID, map[string]interface{}{"status": status})
}

// SetExpertMembership changes the tier and the featured flag in one update.
func SetExpertMembership(ownerID uint, membership models.MembershipType) (*models.Expert, error) {
	if !membership.IsValid() {
		return nil, ErrInvalidMembership
	}
	if err := updateOwnExpert(ownerID, map[string]interface{}{
		"membership_type": membership,
		"is_featured":     membership.Featured(),
	}); err != nil {
		return nil, err
	}
	return FindExpertByOwner(ownerID)
}

func updateOwnExpert(ownerID uint, updates map[string]interface{}) error {
	result := database.DB.Model(&models.Expert{}).Where("user_id = ?", ownerID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExpertNotFound
	}
	InvalidateExpertListCache()
	return nil
}

// ExpertDashboard summarizes the caller's profile and inbox.
type ExpertDashboard struct {
	Expert            *models.Expert `json:"expert"`
	PendingSessions   int64          `json:"pendingSessions"`
	UrgentSessions    int64          `json:"urgentSessions"`
	ConfirmedSessions int64          `json:"confirmedSessions"`
}

// GetExpertDashboard returns the owner's profile, or a nil profile with zero
// counts when none exists yet. Urgent sessions are pending ones whose
// requested date is today or earlier.
func GetExpertDashboard(ownerID uint, today time.Time) (*ExpertDashboard, error) {
	dashboard := &ExpertDashboard{}
	expert, err := FindExpertByOwner(ownerID)
	if errors.Is(err, ErrExpertNotFound) {
		return dashboard, nil
	}
	if err != nil {
		return nil, err
	}
	dashboard.Expert = expert

	base := func() *gorm.DB {
		return database.DB.Model(&models.SessionRequest{}).Where("expert_id = ?", expert.ID)
	}
	if err := base().Where("status = ?", models.SessionStatusPending).Count(&dashboard.PendingSessions).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("status = ? AND requested_date <= ?", models.SessionStatusPending, today.Format(models.RequestedDateLayout)).
		Count(&dashboard.UrgentSessions).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.SessionStatusAccepted).Count(&dashboard.ConfirmedSessions).Error; err != nil {
		return nil, err
	}
	return dashboard, nil
}

// SessionWithClient is a session as seen from the expert's inbox.
type SessionWithClient struct {
	models.SessionRequest
	ClientName string `json:"clientName"`
}

// ListExpertSessions returns the sessions addressed to the owner's profile,
// newest first, optionally narrowed to one status.
func ListExpertSessions(ownerID uint, status models.SessionStatus) ([]SessionWithClient, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	expert, err := FindExpertByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	query := database.DB.Table("sessions").
		Select("sessions.*, users.display_name AS client_name").
		Joins("JOIN users ON users.id = sessions.client_id").
		Where("sessions.expert_id = ?", expert.ID)
	if status != "" {
		query = query.Where("sessions.status = ?", status)
	}

	rows := make([]SessionWithClient, 0)
	if err := query.Order("sessions.created_at DESC").Order("sessions.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
