package services

import (
	"context"
	"testing"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/logging"
	"github.com/venturelink/app-venturelink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestReplacedURLs(t *testing.T) {
	stored := []string{"a", "b", "c"}

	// Omitted field replaces nothing
	if gone := replacedURLs(stored, nil); gone != nil {
		t.Errorf("nil replacement must replace nothing, got %v", gone)
	}

	// Empty replacement drops everything
	if gone := replacedURLs(stored, []string{}); len(gone) != 3 {
		t.Errorf("empty replacement must drop all stored URLs, got %v", gone)
	}

	// Partial overlap drops only the absent ones
	gone := replacedURLs(stored, []string{"b", "d"})
	if len(gone) != 2 || gone[0] != "a" || gone[1] != "c" {
		t.Errorf("expected [a c] dropped, got %v", gone)
	}
}

func TestSupersededPitchAssets(t *testing.T) {
	pitch := &models.Pitch{
		LogoURL:       "logo-v1",
		PitchDeckURL:  "deck-v1",
		DemoVideoURLs: []string{"v1", "v2"},
	}

	newLogo := "logo-v2"
	sameDeck := "deck-v1"
	in := &models.PitchInput{
		LogoURL:       &newLogo,
		PitchDeckURL:  &sameDeck,
		DemoVideoURLs: []string{"v2", "v3"},
	}

	stale := supersededPitchAssets(pitch, in)
	if len(stale) != 2 {
		t.Fatalf("expected replaced logo and dropped video, got %v", stale)
	}
	if stale[0] != "logo-v1" || stale[1] != "v1" {
		t.Errorf("unexpected superseded set %v", stale)
	}
}

func TestSupersededPitchAssetsOmittedFields(t *testing.T) {
	pitch := &models.Pitch{
		LogoURL:       "logo-v1",
		DemoVideoURLs: []string{"v1"},
	}
	if stale := supersededPitchAssets(pitch, &models.PitchInput{}); len(stale) != 0 {
		t.Errorf("an empty update must supersede nothing, got %v", stale)
	}
}

// setupPitchServiceTest prepares a service against the shared test database.
// Skipped when no MongoDB connection was initialized for the test run.
func setupPitchServiceTest(t *testing.T) (*PitchService, func()) {
	logging.InitLogger()

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.PitchCollection = "test_pitches"
	config.AppConfig.PitchRevisionCollection = "test_pitch_revisions"
	config.AppConfig.NotificationCollection = "test_notifications"
	config.AppConfig.ProfileCollection = "test_profiles"
	config.AppConfig.SettingsCollection = "test_platform_settings"

	if config.MongoDB == nil {
		t.Skip("Skipping pitch service tests: MongoDB not initialized")
	}

	logger := zap.L().Named("pitch_service_test")
	notifications := NewNotificationService(logger)
	settings := NewSettingsService(logger)
	service := NewPitchService(logger, NewBlobService(logger), notifications, settings)

	ctx := context.Background()
	return service, func() {
		config.MongoDB.Collection("test_pitches").Drop(ctx)
		config.MongoDB.Collection("test_pitch_revisions").Drop(ctx)
		config.MongoDB.Collection("test_notifications").Drop(ctx)
		config.MongoDB.Collection("test_platform_settings").Drop(ctx)
	}
}

func TestCreateDraftRequiresBusinessName(t *testing.T) {
	service, cleanup := setupPitchServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	_, err := service.Create(ctx, primitive.NewObjectID(), models.PitchInput{}, true)
	if err != models.ErrBusinessNameRequired {
		t.Fatalf("expected ErrBusinessNameRequired, got %v", err)
	}

	name := "Acme"
	pitch, err := service.Create(ctx, primitive.NewObjectID(), models.PitchInput{BusinessName: &name}, true)
	if err != nil {
		t.Fatalf("draft with business name must succeed, got %v", err)
	}
	if pitch.Status != models.PitchStatusDraft {
		t.Errorf("expected draft status, got %s", pitch.Status)
	}
}

func TestCreateSubmissionRejectsIncompleteInput(t *testing.T) {
	service, cleanup := setupPitchServiceTest(t)
	defer cleanup()

	name := "Acme"
	_, err := service.Create(context.Background(), primitive.NewObjectID(), models.PitchInput{BusinessName: &name}, false)
	missing, ok := err.(*models.MissingFieldsError)
	if !ok {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(missing.Fields) != 35 {
		t.Errorf("expected 35 missing fields with only the name supplied, got %d", len(missing.Fields))
	}
}

// completePitchInput returns an input passing full validation
func completePitchInput() models.PitchInput {
	sp := func(s string) *string { return &s }
	ip := func(i int) *int { return &i }
	fp := func(f float64) *float64 { return &f }

	return models.PitchInput{
		BusinessName:         sp("Acme Robotics"),
		Tagline:              sp("Robots for everyone"),
		Website:              sp("https://acme.example"),
		Industry:             sp("Robotics"),
		Stage:                sp("Seed"),
		FoundedYear:          ip(2022),
		TeamSize:             ip(5),
		Country:              sp("Pakistan"),
		City:                 sp("Karachi"),
		ProblemStatement:     sp("Manual work is slow"),
		Solution:             sp("Affordable robots"),
		ProductDescription:   sp("A robot arm"),
		BusinessModel:        sp("B2B"),
		RevenueModel:         sp("Subscription"),
		TargetMarket:         sp("Factories"),
		MarketSize:           sp("$2B"),
		CompetitiveLandscape: sp("Few incumbents"),
		CompetitiveAdvantage: sp("Price"),
		GoToMarketStrategy:   sp("Direct sales"),
		TractionSummary:      sp("10 pilots"),
		MonthlyRevenue:       fp(12000),
		MonthlyBurnRate:      fp(8000),
		PreviousFunding:      sp("None"),
		FundingAmount:        fp(500000),
		EquityOffered:        fp(10),
		Valuation:            fp(5000000),
		UseOfFunds:           sp("Hiring"),
		ExitStrategy:         sp("Acquisition"),
		FounderName:          sp("Sara Khan"),
		FounderRole:          sp("CEO"),
		FounderEmail:         sp("sara@acme.example"),
		FounderLinkedIn:      sp("https://linkedin.com/in/sara"),
		TeamOverview:         sp("Two engineers, one designer"),
		RisksAndMitigation:   sp("Supply chain; dual sourcing"),
		LogoURL:              sp("https://res.cloudinary.com/x/image/upload/v1/logo.png"),
		PitchDeckURL:         sp("https://res.cloudinary.com/x/image/upload/v1/deck.pdf"),
	}
}

func TestCreateForbiddenKeywordAutoRejects(t *testing.T) {
	service, cleanup := setupPitchServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	settings := config.MongoDB.Collection(config.AppConfig.SettingsCollection)
	if _, err := settings.InsertOne(ctx, models.PlatformSettings{
		ForbiddenKeywords: []string{"guaranteed returns"},
		UpdatedAt:         nowUTC(),
	}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	// An admin exists, so an admin notification would be visible if sent
	profiles := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	admin := models.Profile{UserType: models.RoleAdmin, FullName: "Admin", Email: "admin@example.com"}
	admin.BeforeCreate()
	adminResult, err := profiles.InsertOne(ctx, admin)
	if err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	adminID := adminResult.InsertedID.(primitive.ObjectID)

	in := completePitchInput()
	solution := "Guaranteed Returns on every robot"
	in.Solution = &solution

	pitch, err := service.Create(ctx, primitive.NewObjectID(), in, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pitch.Status != models.PitchStatusRejected {
		t.Errorf("expected rejected status, got %s", pitch.Status)
	}
	if pitch.RejectionCount != 1 {
		t.Errorf("expected rejection count 1, got %d", pitch.RejectionCount)
	}
	if pitch.RejectionReason == "" {
		t.Error("expected a rejection reason naming the keyword")
	}

	// The admin queue stays silent; only the owner hears about it
	notifications := config.MongoDB.Collection(config.AppConfig.NotificationCollection)
	adminCount, err := notifications.CountDocuments(ctx, bson.M{"recipient_id": adminID})
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	if adminCount != 0 {
		t.Errorf("auto-rejection must not notify admins, found %d notifications", adminCount)
	}
	ownerCount, err := notifications.CountDocuments(ctx, bson.M{"recipient_id": pitch.EntrepreneurID})
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	if ownerCount != 1 {
		t.Errorf("expected one owner notification, got %d", ownerCount)
	}
}

func TestCreateCleanSubmissionIsPending(t *testing.T) {
	service, cleanup := setupPitchServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	pitch, err := service.Create(ctx, primitive.NewObjectID(), completePitchInput(), false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pitch.Status != models.PitchStatusPending {
		t.Errorf("expected pending status, got %s", pitch.Status)
	}
	if pitch.RejectionCount != 0 {
		t.Errorf("expected zero rejections, got %d", pitch.RejectionCount)
	}
}

func TestResubmitOwnershipAndStatusGuards(t *testing.T) {
	service, cleanup := setupPitchServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	owner := primitive.NewObjectID()

	name := "Acme"
	pitch, err := service.Create(ctx, owner, models.PitchInput{BusinessName: &name}, true)
	if err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	if _, err := service.Resubmit(ctx, primitive.NewObjectID(), pitch.ID, models.PitchInput{}, true); err != models.ErrNotOwner {
		t.Errorf("expected ErrNotOwner for a stranger, got %v", err)
	}

	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": pitch.ID},
		bson.M{"$set": bson.M{"status": models.PitchStatusApproved}}); err != nil {
		t.Fatalf("failed to flip status: %v", err)
	}
	if _, err := service.Resubmit(ctx, owner, pitch.ID, models.PitchInput{}, true); err != models.ErrPitchNotEditable {
		t.Errorf("expected ErrPitchNotEditable for an approved pitch, got %v", err)
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": pitch.ID},
		bson.M{"$set": bson.M{"status": models.PitchStatusRejected, "rejection_count": models.MaxPitchRejections + 1}}); err != nil {
		t.Fatalf("failed to lock pitch: %v", err)
	}
	if _, err := service.Resubmit(ctx, owner, pitch.ID, models.PitchInput{}, true); err != models.ErrPitchLocked {
		t.Errorf("expected ErrPitchLocked past the rejection limit, got %v", err)
	}
}
