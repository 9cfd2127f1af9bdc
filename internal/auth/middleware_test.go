package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pitchside/marketplace-backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpireHours: 24,
	}
}

func TestGenerateToken(t *testing.T) {
	cfg := testAuthConfig()
	user := &User{ID: uuid.New(), Email: "team@example.com", Role: RoleTeam}

	token, expiresAt, err := GenerateToken(user, cfg)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	expected := time.Now().Add(24 * time.Hour)
	assert.WithinDuration(t, expected, expiresAt, time.Minute)
}

func TestMiddleware(t *testing.T) {
	cfg := testAuthConfig()
	user := &User{ID: uuid.New(), Email: "team@example.com", Role: RoleTeam}

	token, _, err := GenerateToken(user, cfg)
	assert.NoError(t, err)

	badToken, _, err := GenerateToken(user, &config.AuthConfig{JWTSecret: "other-secret", TokenExpireHours: 24})
	assert.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"missing bearer prefix", token, http.StatusUnauthorized},
		{"wrong signing key", "Bearer " + badToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Middleware(cfg))
			router.GET("/protected", func(c *gin.Context) {
				assert.Equal(t, user.ID, CurrentUser(c))
				assert.Equal(t, string(RoleTeam), CurrentRole(c))
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	cfg := testAuthConfig()
	sponsor := &User{ID: uuid.New(), Email: "sponsor@example.com", Role: RoleSponsor}
	token, _, err := GenerateToken(sponsor, cfg)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(Middleware(cfg))
	router.GET("/teams-only", RequireRole(RoleTeam), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/teams-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
