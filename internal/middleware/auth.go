package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthMiddleware extracts and verifies JWT claims from the request
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := VerifyAccessToken(parts[1])
		if err != nil {
			observability.Logger().Warn("rejected access token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// VerifyAccessToken parses and verifies an access token signature
func VerifyAccessToken(token string) (*models.AccessClaims, error) {
	claims := &models.AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role claim %q", claims.Role)
	}
	return claims, nil
}

// RequireAdmin checks that the caller holds the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole checks that the caller holds the given role
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := CallerClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			c.Abort()
			return
		}

		if claims.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s privileges required", role)})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CallerClaims returns the verified claims stored by AuthMiddleware
func CallerClaims(c *gin.Context) (*models.AccessClaims, error) {
	claims, exists := c.Get("claims")
	if !exists {
		return nil, fmt.Errorf("claims not found")
	}

	accessClaims, ok := claims.(*models.AccessClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	return accessClaims, nil
}

// CallerID returns the caller's profile ID from the token subject
func CallerID(c *gin.Context) (primitive.ObjectID, error) {
	claims, err := CallerClaims(c)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid subject claim: %w", err)
	}

	return id, nil
}

// IsAdmin reports whether the caller holds the admin role
func IsAdmin(c *gin.Context) bool {
	claims, err := CallerClaims(c)
	return err == nil && claims.Role == models.RoleAdmin
}
