package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"plateada-backend/internal/database"
	"plateada-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var emailSeq int64

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a fresh database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
	database.RedisClient = nil

	t.Cleanup(func() { _ = sqlDB.Close() })
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = database.RedisClient.Close()
		database.RedisClient = nil
	})
	return mr
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, atomic.AddInt64(&emailSeq, 1))
}

func actorFor(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role, RequestID: "test-request"}
}

func registerUser(t *testing.T, role models.Role) (*models.User, Actor) {
	t.Helper()

	user, err := RegisterUser(RegisterInput{
		Email:       uniqueEmail(string(role)),
		Password:    "secret123",
		DisplayName: "Test " + string(role),
		Role:        role,
	})
	require.NoError(t, err)
	return user, actorFor(user)
}

func defaultExpertInput(name string) CreateExpertInput {
	return CreateExpertInput{
		Name:            name,
		Age:             60,
		Service:         "Clases de cocina tradicional",
		ServiceCategory: "cocina",
		Experience:      "30 anos de experiencia",
		Modality:        models.ModalityInPerson,
		Zone:            "Centro",
		Schedule:        "Lunes a Viernes, 10:00 - 14:00",
		Contact:         "+52 55 1234 5678",
	}
}

// registerExpert creates an expert account together with its profile.
func registerExpert(t *testing.T, input CreateExpertInput) (*models.User, *models.Expert, Actor) {
	t.Helper()

	user, actor := registerUser(t, models.RoleExpert)
	expert, err := CreateExpertProfile(actor, input)
	require.NoError(t, err)
	return user, expert, actor
}

func transactionsOf(t *testing.T, userID uint) []models.CreditTransaction {
	t.Helper()

	var rows []models.CreditTransaction
	require.NoError(t, database.DB.Where("user_id = ?", userID).Order("id asc").Find(&rows).Error)
	return rows
}

func sumAmounts(rows []models.CreditTransaction) int {
	total := 0
	for _, r := range rows {
		total += r.Amount
	}
	return total
}
