package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsync-server/internal/config"
	"healthsync-server/internal/models"
	"healthsync-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func middlewareConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-access-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
}

func protectedRouter(cfg *config.Config, roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	group := r.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleAuthMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, userID)
	})
	return r
}

func bearerToken(t *testing.T, cfg *config.Config, role models.UserRole) string {
	t.Helper()
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: role}
	access, _, err := utils.GenerateTokens(user, cfg)
	require.NoError(t, err)
	return "Bearer " + access
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := middlewareConfig()
	r := protectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, models.RolePatient))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter(middlewareConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := protectedRouter(middlewareConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	cfg := middlewareConfig()
	other := middlewareConfig()
	other.JWTSecret = "a-different-secret"
	r := protectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, other, models.RolePatient))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAuthMiddleware(t *testing.T) {
	cfg := middlewareConfig()
	r := protectedRouter(cfg, models.RoleDoctor)

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", bearerToken(t, cfg, models.RoleDoctor))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", bearerToken(t, cfg, models.RolePatient))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
