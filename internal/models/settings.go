package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformSettings is the singleton admin-configurable platform record
type PlatformSettings struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ForbiddenKeywords []string           `json:"forbidden_keywords" bson:"forbidden_keywords"`
	SupportEmail      string             `json:"support_email,omitempty" bson:"support_email,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// MatchForbiddenKeyword returns the first forbidden keyword found in the
// text as a case-insensitive substring, or "" when the text is clean.
func (s *PlatformSettings) MatchForbiddenKeyword(text string) string {
	lowered := strings.ToLower(text)
	for _, kw := range s.ForbiddenKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw
		}
	}
	return ""
}
