package services

import (
	"context"
	"fmt"
	"time"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NotificationService creates and serves per-recipient notices
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// Notify creates a notification for one recipient. Fire-and-forget: a store
// failure is logged and swallowed, never escalated to the caller.
func (s *NotificationService) Notify(ctx context.Context, recipientID primitive.ObjectID, role models.Role, message string, severity models.NotificationSeverity, relatedID *primitive.ObjectID, relatedKind string) {
	notification := models.Notification{
		RecipientID:   recipientID,
		RecipientRole: role,
		Message:       message,
		Severity:      severity,
		RelatedID:     relatedID,
		RelatedKind:   relatedKind,
		CreatedAt:     time.Now().UTC(),
	}

	collection := config.MongoDB.Collection(config.AppConfig.NotificationCollection)
	if _, err := collection.InsertOne(ctx, notification); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("recipient_id", recipientID.Hex()),
			zap.String("severity", string(severity)),
			zap.Error(err))
	}
}

// NotifyAdmins creates the same notification for every admin profile
func (s *NotificationService) NotifyAdmins(ctx context.Context, message string, severity models.NotificationSeverity, relatedID *primitive.ObjectID, relatedKind string) {
	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	cursor, err := collection.Find(ctx, bson.M{"user_type": models.RoleAdmin})
	if err != nil {
		s.logger.Error("failed to list admins for notification", zap.Error(err))
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var admin models.Profile
		if err := cursor.Decode(&admin); err != nil {
			continue
		}
		s.Notify(ctx, admin.ID, models.RoleAdmin, message, severity, relatedID, relatedKind)
	}
}

// List returns a recipient's notifications, newest first
func (s *NotificationService) List(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool) ([]models.Notification, error) {
	collection := config.MongoDB.Collection(config.AppConfig.NotificationCollection)

	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["is_read"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the recipient's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID primitive.ObjectID) error {
	collection := config.MongoDB.Collection(config.AppConfig.NotificationCollection)

	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

// Delete removes one of the recipient's notifications
func (s *NotificationService) Delete(ctx context.Context, recipientID, notificationID primitive.ObjectID) error {
	collection := config.MongoDB.Collection(config.AppConfig.NotificationCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": notificationID, "recipient_id": recipientID})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

// DeleteForRecipient removes every notification owned by a recipient.
// Used by the account-deletion cascade.
func (s *NotificationService) DeleteForRecipient(ctx context.Context, recipientID primitive.ObjectID) error {
	collection := config.MongoDB.Collection(config.AppConfig.NotificationCollection)
	if _, err := collection.DeleteMany(ctx, bson.M{"recipient_id": recipientID}); err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to delete recipient notifications: %w", err)
	}
	return nil
}
