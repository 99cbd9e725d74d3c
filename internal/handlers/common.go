package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"github.com/venturelink/app-venturelink/internal/services"
	"go.uber.org/zap"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// MessageResponse is the uniform success payload for operations that return
// no record
type MessageResponse struct {
	Message string `json:"message"`
}

var (
	blobService         *services.BlobService
	mailerService       *services.MailerService
	notificationService *services.NotificationService
	settingsService     *services.SettingsService
	pitchService        *services.PitchService
	moderationService   *services.ModerationService
	profileService      *services.ProfileService
)

// Init wires the handler package's service instances. Must run after config
// and database initialization.
func Init() {
	logger := observability.Logger()

	blobService = services.NewBlobService(logger)
	mailerService = services.NewMailerService(logger)
	notificationService = services.NewNotificationService(logger)
	settingsService = services.NewSettingsService(logger)
	pitchService = services.NewPitchService(logger, blobService, notificationService, settingsService)
	moderationService = services.NewModerationService(logger, blobService, notificationService)
	profileService = services.NewProfileService(logger, blobService, mailerService, notificationService, pitchService)
}

// respondError translates workflow errors into HTTP responses. Unrecognized
// errors become an opaque 500; their detail stays in the logs.
func respondError(c *gin.Context, err error) {
	var missing *models.MissingFieldsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         missing.Error(),
			MissingFields: missing.Fields,
		})
		return
	}

	var validation *models.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Message})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidAction),
		errors.Is(err, models.ErrInvalidDocumentType),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrBusinessNameRequired),
		errors.Is(err, models.ErrCommentsRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotOwner),
		errors.Is(err, models.ErrEmailNotVerified),
		errors.Is(err, models.ErrPitchNotEditable),
		errors.Is(err, models.ErrPitchLocked),
		errors.Is(err, models.ErrPitchNotPending),
		errors.Is(err, models.ErrRevisionNotPending),
		errors.Is(err, models.ErrPendingRevisionExists):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrProfileNotFound),
		errors.Is(err, models.ErrPitchNotFound),
		errors.Is(err, models.ErrRevisionNotFound),
		errors.Is(err, models.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		observability.Logger().Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
