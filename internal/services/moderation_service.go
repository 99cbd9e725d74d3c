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

// ModerationService drives the admin approve/reject workflow for pitches,
// pitch revision requests and document revision requests.
//
// The workflow touches several documents per decision (target record,
// request record, notification) with no cross-document transaction; a crash
// between steps can leave a partially-applied state. Blob cleanup is
// best-effort and never blocks a status transition.
type ModerationService struct {
	logger        *zap.Logger
	blobs         *BlobService
	notifications *NotificationService
}

// NewModerationService creates a new moderation service
func NewModerationService(logger *zap.Logger, blobs *BlobService, notifications *NotificationService) *ModerationService {
	return &ModerationService{
		logger:        logger,
		blobs:         blobs,
		notifications: notifications,
	}
}

// DecideDocumentRevision applies an admin verdict to a pending document
// revision request. The atomic find-and-delete on the pending request is the
// de-duplication point: when two admins race, exactly one consumes the
// request and the other observes ErrRevisionNotFound. The request record is
// not retained after the decision.
func (s *ModerationService) DecideDocumentRevision(ctx context.Context, requestID primitive.ObjectID, action models.RevisionAction) error {
	ctx, span, done := utils.TraceOperation(ctx, "moderation.decide_document_revision", map[string]interface{}{
		"request.id": requestID.Hex(),
		"action":     string(action),
	})
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)

	var request models.DocumentRevisionRequest
	err := collection.FindOneAndDelete(ctx, bson.M{"_id": requestID, "status": models.RevisionStatusPending}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrRevisionNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to consume document revision request: %w", err)
	}

	observability.ModerationDecisions.WithLabelValues("document_revision", string(action)).Inc()

	if action == models.ActionReject {
		// The request's uploads were never attached to anything; discard them.
		s.blobs.DeleteAll(ctx, request.Document.ScanURLs())
		s.notifications.Notify(ctx, request.ProfileID, models.RoleEntrepreneur,
			"Your identity document update was rejected. Please submit valid documents.",
			models.SeverityError, &request.ProfileID, "profile")
		s.logger.Info("document revision rejected",
			zap.String("request_id", requestID.Hex()),
			zap.String("profile_id", request.ProfileID.Hex()))
		return nil
	}

	profiles := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	var profile models.Profile
	if err := profiles.FindOne(ctx, bson.M{"_id": request.ProfileID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			// Request already consumed; nothing to merge onto.
			s.logger.Warn("document revision approved for missing profile",
				zap.String("request_id", requestID.Hex()),
				zap.String("profile_id", request.ProfileID.Hex()))
			return models.ErrProfileNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to load profile: %w", err)
	}

	// Discard the profile's superseded scans before mutating the record
	s.blobs.DeleteAll(ctx, profile.Document.SupersededURLs(&request.Document))

	profile.Document.Apply(&request.Document)
	profile.IsVerified = true
	profile.BeforeUpdate()

	if _, err := profiles.UpdateOne(ctx,
		bson.M{"_id": profile.ID},
		bson.M{"$set": bson.M{
			"document":    profile.Document,
			"is_verified": profile.IsVerified,
			"updated_at":  profile.UpdatedAt,
		}}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to persist profile document: %w", err)
	}

	s.notifications.Notify(ctx, profile.ID, profile.UserType,
		"Your identity document update was approved. Your account is now verified.",
		models.SeveritySuccess, &profile.ID, "profile")

	s.logger.Info("document revision approved",
		zap.String("request_id", requestID.Hex()),
		zap.String("profile_id", profile.ID.Hex()),
		zap.String("document_type", string(profile.Document.DocumentType)))
	return nil
}

// DecidePitchRevision applies an admin verdict to a pending pitch revision
// request. Approval merges every supplied field onto the target pitch;
// rejection records the admin remark. The request is retained either way as
// an audit trail of content changes.
func (s *ModerationService) DecidePitchRevision(ctx context.Context, requestID primitive.ObjectID, action models.RevisionAction, remark string) error {
	ctx, span, done := utils.TraceOperation(ctx, "moderation.decide_pitch_revision", map[string]interface{}{
		"request.id": requestID.Hex(),
		"action":     string(action),
	})
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.PitchRevisionCollection)

	target := models.RevisionStatusApproved
	if action == models.ActionReject {
		target = models.RevisionStatusRejected
	}

	now := nowUTC()
	// Claiming the pending request atomically keeps a racing second decision
	// from double-applying the merge.
	var request models.PitchRevisionRequest
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": requestID, "status": models.RevisionStatusPending},
		bson.M{"$set": bson.M{
			"status":       target,
			"admin_remark": remark,
			"decided_at":   now,
			"updated_at":   now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return s.classifyMissingRevision(ctx, collection, requestID)
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to claim pitch revision request: %w", err)
	}

	observability.ModerationDecisions.WithLabelValues("pitch_revision", string(action)).Inc()

	if action == models.ActionReject {
		message := "Your pitch update was rejected."
		if remark != "" {
			message = fmt.Sprintf("Your pitch update was rejected: %s", remark)
		}
		s.notifications.Notify(ctx, request.EntrepreneurID, models.RoleEntrepreneur,
			message, models.SeverityError, &request.PitchID, "pitch")
		s.logger.Info("pitch revision rejected",
			zap.String("request_id", requestID.Hex()),
			zap.String("pitch_id", request.PitchID.Hex()))
		return nil
	}

	pitches := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var pitch models.Pitch
	if err := pitches.FindOne(ctx, bson.M{"_id": request.PitchID}).Decode(&pitch); err != nil {
		if err == mongo.ErrNoDocuments {
			s.logger.Warn("pitch revision approved for missing pitch",
				zap.String("request_id", requestID.Hex()),
				zap.String("pitch_id", request.PitchID.Hex()))
			return models.ErrPitchNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to load pitch: %w", err)
	}

	// Field-presence merge of everything except system fields
	request.Changes.ApplyTo(&pitch)
	pitch.BeforeUpdate()

	if _, err := pitches.ReplaceOne(ctx, bson.M{"_id": pitch.ID}, pitch); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to persist pitch: %w", err)
	}

	s.notifications.Notify(ctx, request.EntrepreneurID, models.RoleEntrepreneur,
		fmt.Sprintf("Your update to %q was approved and is now live.", pitch.BusinessName),
		models.SeveritySuccess, &pitch.ID, "pitch")

	s.logger.Info("pitch revision approved",
		zap.String("request_id", requestID.Hex()),
		zap.String("pitch_id", pitch.ID.Hex()))
	return nil
}

// classifyMissingRevision distinguishes an unknown request from one that has
// already been decided
func (s *ModerationService) classifyMissingRevision(ctx context.Context, collection *mongo.Collection, requestID primitive.ObjectID) error {
	count, err := collection.CountDocuments(ctx, bson.M{"_id": requestID})
	if err != nil {
		return fmt.Errorf("failed to look up revision request: %w", err)
	}
	if count > 0 {
		return models.ErrRevisionNotPending
	}
	return models.ErrRevisionNotFound
}

// DecidePitch applies an admin verdict to a pitch awaiting review. Rejection
// increments the bounded retry counter; past the limit the owner can no
// longer edit or resubmit.
func (s *ModerationService) DecidePitch(ctx context.Context, pitchID primitive.ObjectID, action models.RevisionAction, remark string) error {
	ctx, span, done := utils.TraceOperation(ctx, "moderation.decide_pitch", map[string]interface{}{
		"pitch.id": pitchID.Hex(),
		"action":   string(action),
	})
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.PitchCollection)

	var update bson.M
	if action == models.ActionApprove {
		update = bson.M{"$set": bson.M{
			"status":           models.PitchStatusApproved,
			"rejection_reason": "",
			"updated_at":       nowUTC(),
		}}
	} else {
		update = bson.M{
			"$set": bson.M{
				"status":           models.PitchStatusRejected,
				"rejection_reason": remark,
				"updated_at":       nowUTC(),
			},
			"$inc": bson.M{"rejection_count": 1},
		}
	}

	var pitch models.Pitch
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": pitchID, "status": models.PitchStatusPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&pitch)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			count, countErr := collection.CountDocuments(ctx, bson.M{"_id": pitchID})
			if countErr != nil {
				return fmt.Errorf("failed to look up pitch: %w", countErr)
			}
			if count > 0 {
				return models.ErrPitchNotPending
			}
			return models.ErrPitchNotFound
		}
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to decide pitch: %w", err)
	}

	observability.ModerationDecisions.WithLabelValues("pitch", string(action)).Inc()

	if action == models.ActionApprove {
		s.notifications.Notify(ctx, pitch.EntrepreneurID, models.RoleEntrepreneur,
			fmt.Sprintf("Your pitch %q was approved and is now visible to investors.", pitch.BusinessName),
			models.SeveritySuccess, &pitch.ID, "pitch")
	} else {
		message := fmt.Sprintf("Your pitch %q was rejected.", pitch.BusinessName)
		if remark != "" {
			message = fmt.Sprintf("Your pitch %q was rejected: %s", pitch.BusinessName, remark)
		}
		if pitch.Locked() {
			message += " The pitch has reached the maximum number of rejections and can no longer be edited."
		}
		s.notifications.Notify(ctx, pitch.EntrepreneurID, models.RoleEntrepreneur,
			message, models.SeverityError, &pitch.ID, "pitch")
	}

	s.logger.Info("pitch decided",
		zap.String("pitch_id", pitch.ID.Hex()),
		zap.String("action", string(action)),
		zap.Int("rejection_count", pitch.RejectionCount))
	return nil
}

// ListPendingDocumentRevisions returns the document revision moderation queue
func (s *ModerationService) ListPendingDocumentRevisions(ctx context.Context) ([]models.DocumentRevisionRequest, error) {
	collection := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)

	cursor, err := collection.Find(ctx,
		bson.M{"status": models.RevisionStatusPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list document revisions: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.DocumentRevisionRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode document revisions: %w", err)
	}
	return requests, nil
}

// ListPendingPitchRevisions returns the pitch revision moderation queue
func (s *ModerationService) ListPendingPitchRevisions(ctx context.Context) ([]models.PitchRevisionRequest, error) {
	collection := config.MongoDB.Collection(config.AppConfig.PitchRevisionCollection)

	cursor, err := collection.Find(ctx,
		bson.M{"status": models.RevisionStatusPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pitch revisions: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.PitchRevisionRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode pitch revisions: %w", err)
	}
	return requests, nil
}
