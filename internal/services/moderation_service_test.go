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

func setupModerationServiceTest(t *testing.T) (*ModerationService, func()) {
	logging.InitLogger()

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.ProfileCollection = "test_profiles"
	config.AppConfig.PitchCollection = "test_pitches"
	config.AppConfig.PitchRevisionCollection = "test_pitch_revisions"
	config.AppConfig.DocumentRevisionCollection = "test_document_revisions"
	config.AppConfig.NotificationCollection = "test_notifications"

	if config.MongoDB == nil {
		t.Skip("Skipping moderation service tests: MongoDB not initialized")
	}

	logger := zap.L().Named("moderation_service_test")
	service := NewModerationService(logger, NewBlobService(logger), NewNotificationService(logger))

	ctx := context.Background()
	return service, func() {
		config.MongoDB.Collection("test_profiles").Drop(ctx)
		config.MongoDB.Collection("test_pitches").Drop(ctx)
		config.MongoDB.Collection("test_pitch_revisions").Drop(ctx)
		config.MongoDB.Collection("test_document_revisions").Drop(ctx)
		config.MongoDB.Collection("test_notifications").Drop(ctx)
	}
}

func TestDecideDocumentRevisionApprove(t *testing.T) {
	service, cleanup := setupModerationServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	profiles := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	revisions := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)

	profile := models.Profile{
		UserType: models.RoleEntrepreneur,
		FullName: "Sara Khan",
		Email:    "sara@example.com",
		Status:   models.ProfileStatusApproved,
		Document: models.IdentityDocument{
			DocumentType: models.DocumentTypeCnic,
			CnicNumber:   "42101-1234567-1",
			CnicFrontURL: "front-v1",
			CnicBackURL:  "back-v1",
		},
	}
	profile.BeforeCreate()
	profileResult, err := profiles.InsertOne(ctx, profile)
	if err != nil {
		t.Fatalf("failed to insert profile: %v", err)
	}
	profileID := profileResult.InsertedID.(primitive.ObjectID)

	request := models.DocumentRevisionRequest{
		ProfileID: profileID,
		Status:    models.RevisionStatusPending,
		Document: models.IdentityDocument{
			DocumentType: models.DocumentTypeCnic,
			CnicNumber:   "42101-7654321-9",
			CnicFrontURL: "front-v2",
			CnicBackURL:  "back-v2",
		},
		CreatedAt: nowUTC(),
	}
	requestResult, err := revisions.InsertOne(ctx, request)
	if err != nil {
		t.Fatalf("failed to insert revision request: %v", err)
	}
	requestID := requestResult.InsertedID.(primitive.ObjectID)

	if err := service.DecideDocumentRevision(ctx, requestID, models.ActionApprove); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	var updated models.Profile
	if err := profiles.FindOne(ctx, bson.M{"_id": profileID}).Decode(&updated); err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if !updated.IsVerified {
		t.Error("profile must be verified after approval")
	}
	if updated.Document.CnicNumber != "42101-7654321-9" || updated.Document.CnicFrontURL != "front-v2" {
		t.Errorf("document not replaced: %+v", updated.Document)
	}

	// The request is consumed; no record remains
	count, err := revisions.CountDocuments(ctx, bson.M{"_id": requestID})
	if err != nil {
		t.Fatalf("failed to count requests: %v", err)
	}
	if count != 0 {
		t.Error("decided request must be deleted")
	}

	// A second verdict on the same request loses the race
	if err := service.DecideDocumentRevision(ctx, requestID, models.ActionReject); err != models.ErrRevisionNotFound {
		t.Errorf("expected ErrRevisionNotFound on a consumed request, got %v", err)
	}
}

func TestDecideDocumentRevisionApproveVariantSwitch(t *testing.T) {
	service, cleanup := setupModerationServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	profiles := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	revisions := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)

	profile := models.Profile{
		UserType: models.RoleEntrepreneur,
		FullName: "Sara Khan",
		Email:    "sara@example.com",
		Status:   models.ProfileStatusApproved,
		Document: models.IdentityDocument{
			DocumentType: models.DocumentTypeCnic,
			CnicNumber:   "42101-1234567-1",
			CnicFrontURL: "front-v1",
			CnicBackURL:  "back-v1",
		},
	}
	profile.BeforeCreate()
	profileResult, err := profiles.InsertOne(ctx, profile)
	if err != nil {
		t.Fatalf("failed to insert profile: %v", err)
	}
	profileID := profileResult.InsertedID.(primitive.ObjectID)

	expiry := nowUTC().AddDate(5, 0, 0)
	request := models.DocumentRevisionRequest{
		ProfileID: profileID,
		Status:    models.RevisionStatusPending,
		Document: models.IdentityDocument{
			DocumentType:    models.DocumentTypePassport,
			PassportNumber:  "AB1234567",
			PassportCountry: "Pakistan",
			PassportExpiry:  &expiry,
			PassportScanURL: "passport-v1",
		},
		CreatedAt: nowUTC(),
	}
	requestResult, err := revisions.InsertOne(ctx, request)
	if err != nil {
		t.Fatalf("failed to insert revision request: %v", err)
	}

	// Both cnic scans are dropped on the switch
	stale := profile.Document.SupersededURLs(&request.Document)
	if len(stale) != 2 {
		t.Fatalf("expected both cnic scans superseded on variant switch, got %v", stale)
	}

	if err := service.DecideDocumentRevision(ctx, requestResult.InsertedID.(primitive.ObjectID), models.ActionApprove); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	var updated models.Profile
	if err := profiles.FindOne(ctx, bson.M{"_id": profileID}).Decode(&updated); err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if updated.Document.DocumentType != models.DocumentTypePassport {
		t.Errorf("expected passport document after switch, got %s", updated.Document.DocumentType)
	}
	if updated.Document.CnicNumber != "" || updated.Document.CnicFrontURL != "" || updated.Document.CnicBackURL != "" {
		t.Errorf("cnic fields must be cleared after the switch: %+v", updated.Document)
	}
	if err := updated.Document.Validate(); err != nil {
		t.Errorf("document must stay valid after the switch, got %v", err)
	}
}

func TestDecideDocumentRevisionRejectLeavesProfileUntouched(t *testing.T) {
	service, cleanup := setupModerationServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	profiles := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	revisions := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)

	profile := models.Profile{
		UserType: models.RoleInvestor,
		FullName: "Omar Ali",
		Email:    "omar@example.com",
		Document: models.IdentityDocument{
			DocumentType:    models.DocumentTypePassport,
			PassportNumber:  "AB1234567",
			PassportCountry: "Pakistan",
			PassportScanURL: "scan-v1",
		},
	}
	profile.BeforeCreate()
	profileResult, _ := profiles.InsertOne(ctx, profile)
	profileID := profileResult.InsertedID.(primitive.ObjectID)

	request := models.DocumentRevisionRequest{
		ProfileID: profileID,
		Status:    models.RevisionStatusPending,
		Document: models.IdentityDocument{
			DocumentType:    models.DocumentTypePassport,
			PassportNumber:  "CD7654321",
			PassportCountry: "Pakistan",
			PassportScanURL: "scan-v2",
		},
		CreatedAt: nowUTC(),
	}
	requestResult, _ := revisions.InsertOne(ctx, request)

	if err := service.DecideDocumentRevision(ctx, requestResult.InsertedID.(primitive.ObjectID), models.ActionReject); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	var unchanged models.Profile
	if err := profiles.FindOne(ctx, bson.M{"_id": profileID}).Decode(&unchanged); err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if unchanged.Document.PassportNumber != "AB1234567" {
		t.Errorf("rejected request must not touch the profile document: %+v", unchanged.Document)
	}
	if unchanged.IsVerified {
		t.Error("rejection must not verify the profile")
	}
}

func TestDecidePitchRejectIncrementsCounter(t *testing.T) {
	service, cleanup := setupModerationServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	pitches := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	pitch := models.Pitch{
		EntrepreneurID: primitive.NewObjectID(),
		BusinessName:   "Acme",
		Status:         models.PitchStatusPending,
		RejectionCount: 1,
	}
	pitch.BeforeCreate()
	result, _ := pitches.InsertOne(ctx, pitch)
	pitchID := result.InsertedID.(primitive.ObjectID)

	if err := service.DecidePitch(ctx, pitchID, models.ActionReject, "needs numbers"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	var updated models.Pitch
	if err := pitches.FindOne(ctx, bson.M{"_id": pitchID}).Decode(&updated); err != nil {
		t.Fatalf("failed to reload pitch: %v", err)
	}
	if updated.Status != models.PitchStatusRejected {
		t.Errorf("expected rejected status, got %s", updated.Status)
	}
	if updated.RejectionCount != 2 {
		t.Errorf("expected rejection count 2, got %d", updated.RejectionCount)
	}
	if updated.RejectionReason != "needs numbers" {
		t.Errorf("remark not stored, got %q", updated.RejectionReason)
	}

	// A pitch that is no longer pending cannot be decided again
	if err := service.DecidePitch(ctx, pitchID, models.ActionApprove, ""); err != models.ErrPitchNotPending {
		t.Errorf("expected ErrPitchNotPending, got %v", err)
	}
}
