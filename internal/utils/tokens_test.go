package utils

import (
	"testing"
	"time"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTokenConfig() {
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTTL = time.Hour
	config.AppConfig.EmailTokenTTL = 30 * time.Minute
}

func TestEmailTokenRoundTrip(t *testing.T) {
	setupTokenConfig()

	profileID := primitive.NewObjectID()
	token, err := IssueEmailToken(profileID, "founder@example.com", PurposeVerifyEmail)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := ParseEmailToken(token, PurposeVerifyEmail)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != profileID.Hex() {
		t.Errorf("subject = %q, want %q", claims.Subject, profileID.Hex())
	}
	if claims.Email != "founder@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestEmailTokenPurposeMismatch(t *testing.T) {
	setupTokenConfig()

	token, err := IssueEmailToken(primitive.NewObjectID(), "founder@example.com", PurposeVerifyEmail)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := ParseEmailToken(token, PurposeResetPassword); err == nil {
		t.Error("a verify-email token must not pass as a reset token")
	}
}

func TestEmailTokenTamperedSecret(t *testing.T) {
	setupTokenConfig()

	token, err := IssueEmailToken(primitive.NewObjectID(), "founder@example.com", PurposeResetPassword)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	config.AppConfig.JWTSecret = "different-secret"
	defer setupTokenConfig()

	if _, err := ParseEmailToken(token, PurposeResetPassword); err == nil {
		t.Error("a token signed with another secret must be rejected")
	}
}

func TestIssueAccessToken(t *testing.T) {
	setupTokenConfig()

	token, err := IssueAccessToken(primitive.NewObjectID(), models.RoleEntrepreneur, "founder@example.com")
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}
	if token == "" {
		t.Fatal("empty access token")
	}
}
