package services

import (
	"fmt"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"
	"plateada-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var demoExperts = []CreateExpertInput{
	{
		Name: "Maria Elena Torres", Age: 62, Service: "Clases de cocina tradicional", ServiceCategory: "cocina",
		Experience: "30 anos de experiencia en gastronomia", Modality: models.ModalityInPerson, Zone: "Centro",
		Schedule: "Lunes a Viernes, 10:00 - 14:00", Contact: "+52 55 1234 5678",
	},
	{
		Name: "Roberto Sanchez Gil", Age: 58, Service: "Reparacion de electrodomesticos", ServiceCategory: "electrodomesticos",
		Experience: "35 anos como tecnico certificado", Modality: models.ModalityInPerson, Zone: "Norte",
		Schedule: "Lunes a Sabado, 9:00 - 17:00", Contact: "+52 55 2345 6789",
	},
	{
		Name: "Carmen Lucia Vega", Age: 65, Service: "Asesoria contable y fiscal", ServiceCategory: "contable",
		Experience: "40 anos en contabilidad empresarial", Modality: models.ModalityRemote, Zone: "Sur",
		Schedule: "Martes y Jueves, 11:00 - 15:00", Contact: "+52 55 3456 7890",
	},
	{
		Name: "Jorge Alberto Mora", Age: 70, Service: "Clases de guitarra y musica", ServiceCategory: "guitarra",
		Experience: "45 anos como musico profesional", Modality: models.ModalityBoth, Zone: "Este",
		Schedule: "Miercoles a Domingo, 16:00 - 20:00", Contact: "+52 55 4567 8901",
	},
	{
		Name: "Patricia Mendez Ruiz", Age: 55, Service: "Costura y confeccion a medida", ServiceCategory: "costura",
		Experience: "25 anos como modista independiente", Modality: models.ModalityInPerson, Zone: "Centro",
		Schedule: "Lunes a Viernes, 8:00 - 13:00", Contact: "+52 55 5678 9012",
	},
}

// demoStatuses pairs with demoExperts.
var demoStatuses = []models.ExpertStatus{
	models.ExpertStatusAvailable,
	models.ExpertStatusAvailable,
	models.ExpertStatusBusy,
	models.ExpertStatusAvailable,
	models.ExpertStatusAvailable,
}

// SeedDemoExperts fills an empty directory with demo profiles. Each profile
// gets its own expert account whose password nobody knows. Rating aggregates
// start at zero since no ratings back them.
func SeedDemoExperts() (int, error) {
	var count int64
	if err := database.DB.Model(&models.Expert{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i, in := range demoExperts {
			if err := in.validate(); err != nil {
				return err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := &models.User{
				Email:       fmt.Sprintf("demo-expert-%d@plateada.local", i+1),
				Password:    string(hashed),
				DisplayName: in.Name,
				Role:        models.RoleExpert,
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			expert := &models.Expert{
				UserID:          user.ID,
				Name:            in.Name,
				Age:             in.Age,
				Service:         in.Service,
				ServiceCategory: in.ServiceCategory,
				Experience:      in.Experience,
				Modality:        in.Modality,
				Zone:            in.Zone,
				Schedule:        in.Schedule,
				Contact:         in.Contact,
				Status:          demoStatuses[i],
				Avatar:          models.AvatarInitials(in.Name),
				MembershipType:  models.MembershipFree,
			}
			if err := tx.Create(expert).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	InvalidateExpertListCache()
	logger.Log.Info("demo experts seeded", zap.Int("count", len(demoExperts)))
	return len(demoExperts), nil
}
