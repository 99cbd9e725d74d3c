package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationSeverity tags a notification for the UI
type NotificationSeverity string

const (
	SeveritySuccess NotificationSeverity = "success"
	SeverityError   NotificationSeverity = "error"
	SeverityInfo    NotificationSeverity = "info"
)

// Notification is a per-recipient notice created as a workflow side effect.
// The recipient reference is polymorphic over admin, entrepreneur and
// investor accounts.
type Notification struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	RecipientID   primitive.ObjectID  `json:"recipient_id" bson:"recipient_id"`
	RecipientRole Role                `json:"recipient_role" bson:"recipient_role"`
	Message       string              `json:"message" bson:"message"`
	Severity      NotificationSeverity `json:"severity" bson:"severity"`
	RelatedID     *primitive.ObjectID `json:"related_id,omitempty" bson:"related_id,omitempty"`
	RelatedKind   string              `json:"related_kind,omitempty" bson:"related_kind,omitempty"`
	IsRead        bool                `json:"is_read" bson:"is_read"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
}
