package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevisionStatus is the moderation state of a revision request
type RevisionStatus string

const (
	RevisionStatusPending  RevisionStatus = "pending"
	RevisionStatusApproved RevisionStatus = "approved"
	RevisionStatusRejected RevisionStatus = "rejected"
)

// RevisionAction is an admin verdict on a pending record
type RevisionAction string

const (
	ActionApprove RevisionAction = "approve"
	ActionReject  RevisionAction = "reject"
)

// ParseRevisionAction validates an action string
func ParseRevisionAction(s string) (RevisionAction, error) {
	switch RevisionAction(s) {
	case ActionApprove, ActionReject:
		return RevisionAction(s), nil
	}
	return "", ErrInvalidAction
}

// PitchRevisionRequest is a proposed field-level overwrite of an existing
// pitch, queued for admin decision. Requests are retained after the decision
// as an audit trail of content changes.
type PitchRevisionRequest struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PitchID        primitive.ObjectID `json:"pitch_id" bson:"pitch_id"`
	EntrepreneurID primitive.ObjectID `json:"entrepreneur_id" bson:"entrepreneur_id"`
	Changes        PitchInput         `json:"changes" bson:"changes"`
	Status         RevisionStatus     `json:"status" bson:"status"`
	AdminRemark    string             `json:"admin_remark,omitempty" bson:"admin_remark,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	DecidedAt      *time.Time         `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
}

// DocumentRevisionRequest is a proposed overwrite of a profile's identity
// document fields. At most one pending request exists per profile; the
// record is deleted once decided, so no history is retained.
type DocumentRevisionRequest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProfileID primitive.ObjectID `json:"profile_id" bson:"profile_id"`
	Document  IdentityDocument   `json:"document" bson:"document"`
	Status    RevisionStatus     `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
