package services

import (
	"context"
	"fmt"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// PitchService owns the entrepreneur-facing pitch lifecycle: drafting,
// submission for review, resubmission after rejection, and the revision
// queue for already-approved pitches.
type PitchService struct {
	logger        *zap.Logger
	blobs         *BlobService
	notifications *NotificationService
	settings      *SettingsService
}

// NewPitchService creates a new pitch service
func NewPitchService(logger *zap.Logger, blobs *BlobService, notifications *NotificationService, settings *SettingsService) *PitchService {
	return &PitchService{
		logger:        logger,
		blobs:         blobs,
		notifications: notifications,
		settings:      settings,
	}
}

// Create stores a new pitch. A draft only needs a business name; a pitch
// submitted for review must carry every required field and survive the
// forbidden-keyword scan. A keyword hit stores the pitch as rejected without
// ever entering the review queue.
func (s *PitchService) Create(ctx context.Context, entrepreneurID primitive.ObjectID, input models.PitchInput, draft bool) (*models.Pitch, error) {
	ctx, span, done := utils.TraceOperation(ctx, "pitch.create", map[string]interface{}{
		"entrepreneur.id": entrepreneurID.Hex(),
		"draft":           draft,
	})
	defer done()

	var pitch models.Pitch
	input.ApplyTo(&pitch)
	pitch.EntrepreneurID = entrepreneurID
	pitch.BeforeCreate()

	if draft {
		if pitch.BusinessName == "" {
			return nil, models.ErrBusinessNameRequired
		}
		pitch.Status = models.PitchStatusDraft
	} else {
		if missing := input.MissingRequiredFields(); len(missing) > 0 {
			return nil, &models.MissingFieldsError{Fields: missing}
		}
		status, reason, err := s.screen(ctx, &pitch)
		if err != nil {
			return nil, err
		}
		pitch.Status = status
		pitch.RejectionReason = reason
		if status == models.PitchStatusRejected {
			pitch.RejectionCount = 1
		}
	}

	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)
	result, err := collection.InsertOne(ctx, pitch)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to create pitch: %w", err)
	}
	pitch.ID = result.InsertedID.(primitive.ObjectID)

	observability.PitchSubmissions.WithLabelValues(string(pitch.Status)).Inc()
	s.afterSubmission(ctx, &pitch)

	s.logger.Info("pitch created",
		zap.String("pitch_id", pitch.ID.Hex()),
		zap.String("entrepreneur_id", entrepreneurID.Hex()),
		zap.String("status", string(pitch.Status)))
	return &pitch, nil
}

// Resubmit updates a draft or rejected pitch in place and optionally sends it
// back into review. Approved and pending pitches are not editable this way;
// a pitch past the rejection limit is permanently immutable.
func (s *PitchService) Resubmit(ctx context.Context, entrepreneurID, pitchID primitive.ObjectID, input models.PitchInput, draft bool) (*models.Pitch, error) {
	ctx, span, done := utils.TraceOperation(ctx, "pitch.resubmit", map[string]interface{}{
		"pitch.id": pitchID.Hex(),
		"draft":    draft,
	})
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var pitch models.Pitch
	if err := collection.FindOne(ctx, bson.M{"_id": pitchID}).Decode(&pitch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPitchNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}

	if pitch.EntrepreneurID != entrepreneurID {
		return nil, models.ErrNotOwner
	}
	if pitch.Locked() {
		return nil, models.ErrPitchLocked
	}
	if !pitch.Editable() {
		return nil, models.ErrPitchNotEditable
	}

	// Replaced assets are discarded once the new URLs are in place
	stale := supersededPitchAssets(&pitch, &input)

	input.ApplyTo(&pitch)
	pitch.BeforeUpdate()

	if draft {
		if pitch.BusinessName == "" {
			return nil, models.ErrBusinessNameRequired
		}
		pitch.Status = models.PitchStatusDraft
	} else {
		snapshot := pitch.Snapshot()
		if missing := snapshot.MissingRequiredFields(); len(missing) > 0 {
			return nil, &models.MissingFieldsError{Fields: missing}
		}
		status, reason, err := s.screen(ctx, &pitch)
		if err != nil {
			return nil, err
		}
		pitch.Status = status
		pitch.RejectionReason = reason
		if status == models.PitchStatusRejected {
			pitch.RejectionCount++
		}
	}

	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": pitch.ID}, pitch); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to persist pitch: %w", err)
	}

	s.blobs.DeleteAll(ctx, stale)

	observability.PitchSubmissions.WithLabelValues(string(pitch.Status)).Inc()
	s.afterSubmission(ctx, &pitch)

	s.logger.Info("pitch resubmitted",
		zap.String("pitch_id", pitch.ID.Hex()),
		zap.String("status", string(pitch.Status)))
	return &pitch, nil
}

// screen runs the merged pitch content against the forbidden-keyword list.
// A hit returns the rejected status with a reason; admins are never notified
// of keyword rejections.
func (s *PitchService) screen(ctx context.Context, pitch *models.Pitch) (models.PitchStatus, string, error) {
	settings, err := s.settings.GetOrInitSettings(ctx)
	if err != nil {
		return "", "", err
	}
	if kw := settings.MatchForbiddenKeyword(pitch.ModerationText()); kw != "" {
		observability.KeywordRejections.Inc()
		s.logger.Info("pitch auto-rejected by keyword filter",
			zap.String("entrepreneur_id", pitch.EntrepreneurID.Hex()),
			zap.String("keyword", kw))
		return models.PitchStatusRejected, fmt.Sprintf("Your pitch contains prohibited content (%q).", kw), nil
	}
	return models.PitchStatusPending, "", nil
}

// afterSubmission fans out the post-store notifications for a submission
func (s *PitchService) afterSubmission(ctx context.Context, pitch *models.Pitch) {
	switch pitch.Status {
	case models.PitchStatusPending:
		s.notifications.NotifyAdmins(ctx,
			fmt.Sprintf("Pitch %q is awaiting review.", pitch.BusinessName),
			models.SeverityInfo, &pitch.ID, "pitch")
	case models.PitchStatusRejected:
		s.notifications.Notify(ctx, pitch.EntrepreneurID, models.RoleEntrepreneur,
			fmt.Sprintf("Your pitch %q was rejected: %s", pitch.BusinessName, pitch.RejectionReason),
			models.SeverityError, &pitch.ID, "pitch")
	}
}

// SubmitRevision queues a content change against an approved pitch. The live
// pitch stays untouched until an admin approves the request; one pending
// request per pitch at a time.
func (s *PitchService) SubmitRevision(ctx context.Context, entrepreneurID, pitchID primitive.ObjectID, changes models.PitchInput) (*models.PitchRevisionRequest, error) {
	ctx, span, done := utils.TraceOperation(ctx, "pitch.submit_revision", map[string]interface{}{
		"pitch.id": pitchID.Hex(),
	})
	defer done()

	pitches := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var pitch models.Pitch
	if err := pitches.FindOne(ctx, bson.M{"_id": pitchID}).Decode(&pitch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPitchNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}

	if pitch.EntrepreneurID != entrepreneurID {
		return nil, models.ErrNotOwner
	}
	if pitch.Status != models.PitchStatusApproved {
		return nil, models.ErrPitchNotEditable
	}

	revisions := config.MongoDB.Collection(config.AppConfig.PitchRevisionCollection)

	count, err := revisions.CountDocuments(ctx, bson.M{
		"pitch_id": pitchID,
		"status":   models.RevisionStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check pending revisions: %w", err)
	}
	if count > 0 {
		return nil, models.ErrPendingRevisionExists
	}

	now := nowUTC()
	request := models.PitchRevisionRequest{
		PitchID:        pitchID,
		EntrepreneurID: entrepreneurID,
		Changes:        changes,
		Status:         models.RevisionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := revisions.InsertOne(ctx, request)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to create pitch revision request: %w", err)
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	s.notifications.NotifyAdmins(ctx,
		fmt.Sprintf("An update to pitch %q is awaiting review.", pitch.BusinessName),
		models.SeverityInfo, &request.ID, "pitch_revision")

	s.logger.Info("pitch revision submitted",
		zap.String("pitch_id", pitchID.Hex()),
		zap.String("request_id", request.ID.Hex()))
	return &request, nil
}

// Get loads a single pitch
func (s *PitchService) Get(ctx context.Context, pitchID primitive.ObjectID) (*models.Pitch, error) {
	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var pitch models.Pitch
	if err := collection.FindOne(ctx, bson.M{"_id": pitchID}).Decode(&pitch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrPitchNotFound
		}
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	return &pitch, nil
}

// ListByEntrepreneur returns every pitch owned by an entrepreneur, newest first
func (s *PitchService) ListByEntrepreneur(ctx context.Context, entrepreneurID primitive.ObjectID) ([]models.Pitch, error) {
	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	cursor, err := collection.Find(ctx,
		bson.M{"entrepreneur_id": entrepreneurID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}
	defer cursor.Close(ctx)

	pitches := []models.Pitch{}
	if err := cursor.All(ctx, &pitches); err != nil {
		return nil, fmt.Errorf("failed to decode pitches: %w", err)
	}
	return pitches, nil
}

// PitchFilter narrows the investor-facing pitch listing
type PitchFilter struct {
	Industry string
	Stage    string
	Country  string
}

// ListApproved returns the investor-facing catalog of approved pitches
func (s *PitchService) ListApproved(ctx context.Context, filter PitchFilter) ([]models.Pitch, error) {
	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	query := bson.M{"status": models.PitchStatusApproved}
	if filter.Industry != "" {
		query["industry"] = filter.Industry
	}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}
	if filter.Country != "" {
		query["country"] = filter.Country
	}

	cursor, err := collection.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(200))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved pitches: %w", err)
	}
	defer cursor.Close(ctx)

	pitches := []models.Pitch{}
	if err := cursor.All(ctx, &pitches); err != nil {
		return nil, fmt.Errorf("failed to decode pitches: %w", err)
	}
	return pitches, nil
}

// ListPending returns the admin review queue of submitted pitches, oldest first
func (s *PitchService) ListPending(ctx context.Context) ([]models.Pitch, error) {
	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	cursor, err := collection.Find(ctx,
		bson.M{"status": models.PitchStatusPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending pitches: %w", err)
	}
	defer cursor.Close(ctx)

	pitches := []models.Pitch{}
	if err := cursor.All(ctx, &pitches); err != nil {
		return nil, fmt.Errorf("failed to decode pitches: %w", err)
	}
	return pitches, nil
}

// Delete removes an entrepreneur's pitch along with its blobs and any
// revision requests still queued against it.
func (s *PitchService) Delete(ctx context.Context, entrepreneurID, pitchID primitive.ObjectID) error {
	ctx, span, done := utils.TraceOperation(ctx, "pitch.delete", map[string]interface{}{
		"pitch.id": pitchID.Hex(),
	})
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var pitch models.Pitch
	if err := collection.FindOne(ctx, bson.M{"_id": pitchID}).Decode(&pitch); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrPitchNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch.EntrepreneurID != entrepreneurID {
		return models.ErrNotOwner
	}

	s.blobs.DeleteAll(ctx, pitch.AssetURLs())

	revisions := config.MongoDB.Collection(config.AppConfig.PitchRevisionCollection)
	if _, err := revisions.DeleteMany(ctx, bson.M{"pitch_id": pitchID, "status": models.RevisionStatusPending}); err != nil {
		s.logger.Error("failed to clear pending revisions for deleted pitch",
			zap.String("pitch_id", pitchID.Hex()), zap.Error(err))
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": pitchID}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to delete pitch: %w", err)
	}

	s.logger.Info("pitch deleted", zap.String("pitch_id", pitchID.Hex()))
	return nil
}

// DeleteForEntrepreneur removes every pitch an entrepreneur owns, blobs
// included. Used by the account-deletion cascade.
func (s *PitchService) DeleteForEntrepreneur(ctx context.Context, entrepreneurID primitive.ObjectID) error {
	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	cursor, err := collection.Find(ctx, bson.M{"entrepreneur_id": entrepreneurID})
	if err != nil {
		return fmt.Errorf("failed to list pitches for deletion: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var pitch models.Pitch
		if err := cursor.Decode(&pitch); err != nil {
			continue
		}
		s.blobs.DeleteAll(ctx, pitch.AssetURLs())
	}

	revisions := config.MongoDB.Collection(config.AppConfig.PitchRevisionCollection)
	if _, err := revisions.DeleteMany(ctx, bson.M{"entrepreneur_id": entrepreneurID}); err != nil {
		s.logger.Error("failed to clear revisions for deleted account",
			zap.String("entrepreneur_id", entrepreneurID.Hex()), zap.Error(err))
	}

	if _, err := collection.DeleteMany(ctx, bson.M{"entrepreneur_id": entrepreneurID}); err != nil {
		return fmt.Errorf("failed to delete pitches: %w", err)
	}
	return nil
}

// supersededPitchAssets lists the pitch's stored asset URLs that an update
// replaces with different ones
func supersededPitchAssets(p *models.Pitch, in *models.PitchInput) []string {
	var stale []string
	if in.LogoURL != nil && p.LogoURL != "" && p.LogoURL != *in.LogoURL {
		stale = append(stale, p.LogoURL)
	}
	if in.PitchDeckURL != nil && p.PitchDeckURL != "" && p.PitchDeckURL != *in.PitchDeckURL {
		stale = append(stale, p.PitchDeckURL)
	}
	stale = append(stale, replacedURLs(p.FinancialDocURLs, in.FinancialDocURLs)...)
	stale = append(stale, replacedURLs(p.DemoVideoURLs, in.DemoVideoURLs)...)
	stale = append(stale, replacedURLs(p.TractionProofURLs, in.TractionProofURLs)...)
	return stale
}

// replacedURLs returns the stored URLs absent from the replacement list.
// A nil replacement means the field was omitted and nothing is replaced.
func replacedURLs(stored, replacement []string) []string {
	if replacement == nil {
		return nil
	}
	keep := make(map[string]bool, len(replacement))
	for _, u := range replacement {
		keep[u] = true
	}
	var gone []string
	for _, u := range stored {
		if u != "" && !keep[u] {
			gone = append(gone, u)
		}
	}
	return gone
}
