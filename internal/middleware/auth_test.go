package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/logging"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupAuthTest() {
	gin.SetMode(gin.TestMode)
	logging.InitLogger()
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTTL = time.Hour
}

func authRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/protected", chain...)
	return router
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	setupAuthTest()

	profileID := primitive.NewObjectID()
	token, err := utils.IssueAccessToken(profileID, models.RoleEntrepreneur, "founder@example.com")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	setupAuthTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	setupAuthTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsTamperedToken(t *testing.T) {
	setupAuthTest()

	token, err := utils.IssueAccessToken(primitive.NewObjectID(), models.RoleEntrepreneur, "founder@example.com")
	assert.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	defer setupAuthTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminForbidsOtherRoles(t *testing.T) {
	setupAuthTest()

	token, err := utils.IssueAccessToken(primitive.NewObjectID(), models.RoleInvestor, "investor@example.com")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(RequireAdmin()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	setupAuthTest()

	token, err := utils.IssueAccessToken(primitive.NewObjectID(), models.RoleAdmin, "admin@example.com")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(RequireAdmin()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallerIDMatchesTokenSubject(t *testing.T) {
	setupAuthTest()

	profileID := primitive.NewObjectID()
	token, err := utils.IssueAccessToken(profileID, models.RoleEntrepreneur, "founder@example.com")
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		id, err := CallerID(c)
		assert.NoError(t, err)
		assert.Equal(t, profileID, id)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
