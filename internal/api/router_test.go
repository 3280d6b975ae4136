package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"plateada-backend/config"
	"plateada-backend/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test_secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = database.RedisClient.Close()
		database.RedisClient = nil
		_ = sqlDB.Close()
	})

	return NewRouter(&config.Config{CORSOrigins: []string{"http://localhost:3000"}})
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "text/csv" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID      uint   `json:"id"`
		Role    string `json:"role"`
		Credits int    `json:"credits"`
	} `json:"user"`
}

func register(t *testing.T, r *gin.Engine, email, role string) authData {
	t.Helper()
	code, env := call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "displayName": "User " + role, "role": role,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestMarketplaceFlow(t *testing.T) {
	r := setupRouter(t)

	expert := register(t, r, "maria@example.com", "expert")
	client := register(t, r, "ana@example.com", "client")
	assert.Equal(t, 0, expert.User.Credits)
	assert.Equal(t, 3, client.User.Credits)

	code, env := call(t, r, http.MethodPost, "/api/experts", expert.Token, map[string]interface{}{
		"name": "Maria Elena Torres", "age": 62, "service": "Clases de cocina", "serviceCategory": "cocina",
		"experience": "30 anos", "modality": "presencial", "zone": "Norte", "schedule": "Lunes a Viernes",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var profile struct {
		ID     uint   `json:"id"`
		Avatar string `json:"avatar"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "ME", profile.Avatar)

	code, _ = call(t, r, http.MethodPost, "/api/experts", client.Token, map[string]interface{}{
		"name": "Ana", "age": 70, "service": "x", "experience": "x", "modality": "remoto", "zone": "Sur", "schedule": "x",
	})
	assert.Equal(t, http.StatusForbidden, code)

	var listed []struct {
		ID uint `json:"id"`
	}
	code, env = call(t, r, http.MethodGet, "/api/experts?zone=Norte&modality=remoto", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Empty(t, listed)

	code, env = call(t, r, http.MethodGet, "/api/experts?zone=Norte&modality=presencial", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, profile.ID, listed[0].ID)

	code, env = call(t, r, http.MethodPost, "/api/sessions", client.Token, map[string]interface{}{
		"expertId": profile.ID, "requestedDate": "2026-03-14",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		Session struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"session"`
		RemainingCredits int `json:"remainingCredits"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Session.Status)
	assert.Equal(t, 2, created.RemainingCredits)
	sessionID := created.Session.ID

	code, env = call(t, r, http.MethodGet, "/api/experts/me", expert.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var dashboard struct {
		PendingSessions int `json:"pendingSessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Equal(t, 1, dashboard.PendingSessions)

	code, _ = call(t, r, http.MethodPatch, "/api/sessions", client.Token, map[string]interface{}{"sessionId": sessionID, "status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodPatch, "/api/sessions", expert.Token, map[string]interface{}{"sessionId": sessionID, "status": "completed"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodPatch, "/api/sessions", expert.Token, map[string]interface{}{"sessionId": sessionID, "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodPatch, "/api/sessions", expert.Token, map[string]interface{}{"sessionId": 999, "status": "accepted"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, http.MethodPost, "/api/ratings", client.Token, map[string]interface{}{
		"sessionId": sessionID, "ratedId": expert.User.ID, "quality": 5, "clarity": 4, "punctuality": 5, "overall": 5,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	for _, status := range []string{"accepted", "completed"} {
		code, env = call(t, r, http.MethodPatch, "/api/sessions", expert.Token, map[string]interface{}{"sessionId": sessionID, "status": status})
		require.Equal(t, http.StatusOK, code, env.Message)
	}

	code, env = call(t, r, http.MethodPost, "/api/ratings", client.Token, map[string]interface{}{
		"sessionId": sessionID, "ratedId": expert.User.ID, "quality": 5, "clarity": 4, "punctuality": 5, "overall": 5,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = call(t, r, http.MethodPost, "/api/ratings", client.Token, map[string]interface{}{
		"sessionId": sessionID, "ratedId": expert.User.ID, "quality": 1, "clarity": 1, "punctuality": 1, "overall": 1,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, env = call(t, r, http.MethodGet, "/api/experts", "", nil)
	require.Equal(t, http.StatusOK, code)
	var rated []struct {
		Rating       float64 `json:"rating"`
		TotalRatings int     `json:"totalRatings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rated))
	require.Len(t, rated, 1)
	assert.Equal(t, 5.0, rated[0].Rating)
	assert.Equal(t, 1, rated[0].TotalRatings)

	code, env = call(t, r, http.MethodGet, "/api/sessions", client.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var sessions []struct {
		ExpertName string `json:"expertName"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "Maria Elena Torres", sessions[0].ExpertName)
	assert.Equal(t, "completed", sessions[0].Status)
}

func TestInsufficientCreditsOffersTopUp(t *testing.T) {
	r := setupRouter(t)

	expert := register(t, r, "roberto@example.com", "expert")
	client := register(t, r, "luis@example.com", "client")
	code, env := call(t, r, http.MethodPost, "/api/experts", expert.Token, map[string]interface{}{
		"name": "Roberto Sanchez", "age": 58, "service": "Reparacion", "experience": "35 anos",
		"modality": "ambos", "zone": "Norte", "schedule": "Lunes",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var profile struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	book := map[string]interface{}{"expertId": profile.ID, "requestedDate": "2026-05-01"}
	for i := 0; i < 3; i++ {
		code, env = call(t, r, http.MethodPost, "/api/sessions", client.Token, book)
		require.Equal(t, http.StatusCreated, code, env.Message)
	}

	code, env = call(t, r, http.MethodPost, "/api/sessions", client.Token, book)
	require.Equal(t, http.StatusPaymentRequired, code)
	assert.JSONEq(t, `{"credits": 0, "required": 1}`, string(env.Data))

	code, _ = call(t, r, http.MethodPost, "/api/credits", client.Token, map[string]int{"amount": 51})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodPost, "/api/credits", client.Token, map[string]int{"amount": 5})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"credits": 5}`, string(env.Data))

	code, env = call(t, r, http.MethodPost, "/api/sessions", client.Token, book)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = call(t, r, http.MethodGet, "/api/credits", client.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"credits": 4}`, string(env.Data))

	code, env = call(t, r, http.MethodGet, "/api/credits/audit", client.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var audit struct {
		Computed   int  `json:"computed"`
		Consistent bool `json:"consistent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &audit))
	assert.Equal(t, 4, audit.Computed)
	assert.True(t, audit.Consistent)

	code, env = call(t, r, http.MethodGet, "/api/credits/transactions?type=session_charge", client.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(4), page.Total)

	req := httptest.NewRequest(http.MethodGet, "/api/credits/transactions/export", nil)
	req.Header.Set("Authorization", "Bearer "+client.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "credit_transactions_")
	assert.Contains(t, w.Body.String(), "session_charge")
}

func TestAuthEndpoints(t *testing.T) {
	r := setupRouter(t)

	registered := register(t, r, "Carmen@Example.com", "client")

	code, _ := call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "carmen@example.com", "password": "secret123", "displayName": "Carmen", "role": "client",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "jorge@example.com", "password": "secret123", "displayName": "Jorge", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "carmen@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "carmen@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code)
	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, registered.User.ID, login.User.ID)

	code, env = call(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		Email   string `json:"email"`
		Credits int    `json:"credits"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "carmen@example.com", me.Email)
	assert.Equal(t, 3, me.Credits)

	code, _ = call(t, r, http.MethodGet, "/api/credits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, env.Message, "revoked")

	code, _ = call(t, r, http.MethodGet, "/api/auth/me", registered.Token, nil)
	assert.Equal(t, http.StatusOK, code, "logout must not revoke other sessions of the same user")
}

func TestLoginAfterLogout(t *testing.T) {
	r := setupRouter(t)
	register(t, r, "rosa@example.com", "client")

	login := func() string {
		code, env := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "rosa@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, code, env.Message)
		var data authData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		return data.Token
	}

	laptop := login()
	phone := login()
	assert.NotEqual(t, laptop, phone)

	code, _ := call(t, r, http.MethodPost, "/api/auth/logout", laptop, nil)
	require.Equal(t, http.StatusOK, code)

	fresh := login()
	for name, token := range map[string]string{"fresh login": fresh, "other device": phone} {
		code, env := call(t, r, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, code, "%s: %s", name, env.Message)
	}

	code, _ = call(t, r, http.MethodGet, "/api/auth/me", laptop, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestExpertProfileManagement(t *testing.T) {
	r := setupRouter(t)

	owner := register(t, r, "carmen@example.com", "expert")
	client := register(t, r, "jorge@example.com", "client")

	code, env := call(t, r, http.MethodGet, "/api/experts/me", owner.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"expert": null, "pendingSessions": 0, "urgentSessions": 0, "confirmedSessions": 0}`, string(env.Data))

	code, _ = call(t, r, http.MethodPut, "/api/experts/status", owner.Token, map[string]string{"status": "busy"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = call(t, r, http.MethodPost, "/api/experts", owner.Token, map[string]interface{}{
		"name": "Carmen Lopez", "age": 67, "service": "Costura", "serviceCategory": "costura",
		"experience": "40 anos", "modality": "remoto", "zone": "Centro", "schedule": "Martes",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"Edit Schedule", http.MethodPut, "/api/experts/profile", map[string]string{"field": "schedule", "value": "Jueves"}, http.StatusOK},
		{"Non Editable Field", http.MethodPut, "/api/experts/profile", map[string]string{"field": "rating", "value": "5"}, http.StatusConflict},
		{"Bad Modality", http.MethodPut, "/api/experts/profile", map[string]string{"field": "modality", "value": "online"}, http.StatusBadRequest},
		{"Bad Status", http.MethodPut, "/api/experts/status", map[string]string{"status": "sleeping"}, http.StatusBadRequest},
		{"Busy", http.MethodPut, "/api/experts/status", map[string]string{"status": "busy"}, http.StatusOK},
		{"Bad Membership", http.MethodPut, "/api/experts/membership", map[string]string{"membershipType": "gold"}, http.StatusBadRequest},
		{"Premium", http.MethodPut, "/api/experts/membership", map[string]string{"membershipType": "premium"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, r, tt.method, tt.path, owner.Token, tt.body)
			assert.Equal(t, tt.status, code, env.Message)
		})
	}

	code, _ = call(t, r, http.MethodPut, "/api/experts/status", client.Token, map[string]string{"status": "busy"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, r, http.MethodGet, "/api/experts", "", nil)
	require.Equal(t, http.StatusOK, code)
	var listed []struct {
		Schedule   string `json:"schedule"`
		Status     string `json:"status"`
		IsFeatured bool   `json:"isFeatured"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Jueves", listed[0].Schedule)
	assert.Equal(t, "busy", listed[0].Status)
	assert.True(t, listed[0].IsFeatured)

	var profile struct {
		Expert struct {
			ID uint `json:"id"`
		} `json:"expert"`
	}
	code, env = call(t, r, http.MethodGet, "/api/experts/me", owner.Token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	code, env = call(t, r, http.MethodPost, "/api/sessions", client.Token, map[string]interface{}{
		"expertId": profile.Expert.ID, "requestedDate": "2026-01-10", "requestedTime": "10:00",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		Session struct {
			ID uint `json:"id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = call(t, r, http.MethodGet, "/api/experts/me/sessions?status=pending", owner.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var inbox []struct {
		ClientName    string `json:"clientName"`
		RequestedTime string `json:"requestedTime"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, "User client", inbox[0].ClientName)
	assert.Equal(t, "10:00", inbox[0].RequestedTime)

	path := "/api/sessions/" + strconv.FormatUint(uint64(created.Session.ID), 10)
	code, _ = call(t, r, http.MethodGet, path, owner.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	outsider := register(t, r, "pedro@example.com", "client")
	code, _ = call(t, r, http.MethodGet, path, outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodGet, "/api/sessions/abc", owner.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodPatch, "/api/sessions", owner.Token, map[string]interface{}{"sessionId": created.Session.ID, "status": "rejected"})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = call(t, r, http.MethodGet, "/api/credits", client.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"credits": 3}`, string(env.Data))
}
