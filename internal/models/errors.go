package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error constants for workflow operations
var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrPitchNotFound         = errors.New("pitch not found")
	ErrRevisionNotFound      = errors.New("revision request not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("email address not verified")
	ErrCommentsRequired      = errors.New("rejection comments are required")
	ErrPitchNotEditable      = errors.New("pitch can only be edited while draft or rejected")
	ErrPitchLocked           = errors.New("pitch has exceeded the maximum number of rejections")
	ErrPitchNotPending       = errors.New("pitch is not pending review")
	ErrRevisionNotPending    = errors.New("revision request has already been decided")
	ErrPendingRevisionExists = errors.New("a pending revision request already exists for this record")
	ErrInvalidAction         = errors.New("action must be approve or reject")
	ErrNotOwner              = errors.New("caller does not own this record")
	ErrInvalidDocumentType   = errors.New("document type must be cnic or passport")
	ErrBusinessNameRequired  = errors.New("business name is required")
	ErrInvalidID             = errors.New("invalid record ID")
)

// ValidationError flags a caller-supplied value that failed a format or
// policy check
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// MissingFieldsError carries the enumerated list of missing required fields
// so callers can highlight them individually.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
