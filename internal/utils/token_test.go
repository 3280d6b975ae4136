package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"plateada-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	user := &models.User{ID: 42, Email: "ana@example.com", Role: models.RoleClient, DisplayName: "Ana"}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.RoleClient, claims.Role)
	assert.Equal(t, "Ana", claims.DisplayName)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
	assert.NotEmpty(t, claims.ID)

	again, err := GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, token, again, "tokens issued in the same second must differ")
}

func TestValidateTokenRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("test_secret"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1})
	foreignToken, err := foreign.SignedString([]byte("someone_else"))
	require.NoError(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x@example.com"})
	anonymousToken, err := anonymous.SignedString([]byte("test_secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":   expiredToken,
		"foreign":   foreignToken,
		"no user":   anonymousToken,
		"garbage":   "not.a.token",
	} {
		_, err := ValidateToken(tok)
		assert.Error(t, err, name)
	}
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"", "", false},
		{"Basic abc", "", false},
		{"Bearer   ", "", false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		got, err := ExtractToken(c)
		if tt.ok {
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err, tt.header)
		}
	}
}
