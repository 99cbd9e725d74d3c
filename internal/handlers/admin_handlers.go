package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// DecisionRequest is an admin verdict payload
type DecisionRequest struct {
	Action  string `json:"action" binding:"required" example:"approve"`
	Remarks string `json:"remarks,omitempty"`
}

// parseDecision extracts the path ID and the verdict from a decide request
func parseDecision(c *gin.Context) (primitive.ObjectID, models.RevisionAction, string, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return primitive.NilObjectID, "", "", false
	}

	var request DecisionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return primitive.NilObjectID, "", "", false
	}

	action, err := models.ParseRevisionAction(request.Action)
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, "", "", false
	}
	return id, action, request.Remarks, true
}

// ListPendingProfiles godoc
// @Summary List profiles awaiting review
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Profile "Pending profiles, oldest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/profiles/pending [get]
func ListPendingProfiles(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListPendingProfiles")
	defer span.End()

	profiles, err := profileService.ListByStatus(ctx, models.ProfileStatusPending)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// DecideProfile godoc
// @Summary Approve or reject a profile
// @Description Approval requires a verified email address. Rejection requires remarks, which are mailed to the applicant.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Profile ID"
// @Param data body DecisionRequest true "Verdict"
// @Success 200 {object} MessageResponse "Decision applied"
// @Failure 400 {object} ErrorResponse "Invalid action or missing remarks"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required or email not verified"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/profiles/{id}/decide [post]
func DecideProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DecideProfile")
	defer span.End()

	profileID, action, remarks, ok := parseDecision(c)
	if !ok {
		return
	}

	var err error
	if action == models.ActionApprove {
		err = profileService.Approve(ctx, profileID)
	} else {
		err = profileService.Reject(ctx, profileID, remarks)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Decision applied"})
}

// ListPendingPitches godoc
// @Summary List pitches awaiting review
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Pitch "Pending pitches, oldest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/pitches/pending [get]
func ListPendingPitches(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListPendingPitches")
	defer span.End()

	pitches, err := pitchService.ListPending(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitches)
}

// DecidePitch godoc
// @Summary Approve or reject a pitch
// @Description Rejection increments the pitch's rejection counter; past the limit the owner can no longer edit it.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Pitch ID"
// @Param data body DecisionRequest true "Verdict"
// @Success 200 {object} MessageResponse "Decision applied"
// @Failure 400 {object} ErrorResponse "Invalid action"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required or pitch not pending"
// @Failure 404 {object} ErrorResponse "Pitch not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/pitches/{id}/decide [post]
func DecidePitch(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DecidePitch")
	defer span.End()

	pitchID, action, remarks, ok := parseDecision(c)
	if !ok {
		return
	}

	if err := moderationService.DecidePitch(ctx, pitchID, action, remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Decision applied"})
}

// ListPendingPitchRevisions godoc
// @Summary List pitch revision requests awaiting review
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.PitchRevisionRequest "Pending requests, oldest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/pitch-revisions/pending [get]
func ListPendingPitchRevisions(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListPendingPitchRevisions")
	defer span.End()

	requests, err := moderationService.ListPendingPitchRevisions(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// DecidePitchRevision godoc
// @Summary Approve or reject a pitch revision request
// @Description Approval merges the requested changes onto the live pitch. Either way the request is kept as an audit record.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Revision request ID"
// @Param data body DecisionRequest true "Verdict"
// @Success 200 {object} MessageResponse "Decision applied"
// @Failure 400 {object} ErrorResponse "Invalid action"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required or request already decided"
// @Failure 404 {object} ErrorResponse "Request not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/pitch-revisions/{id}/decide [post]
func DecidePitchRevision(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DecidePitchRevision")
	defer span.End()

	requestID, action, remarks, ok := parseDecision(c)
	if !ok {
		return
	}

	if err := moderationService.DecidePitchRevision(ctx, requestID, action, remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Decision applied"})
}

// ListPendingDocumentRevisions godoc
// @Summary List document revision requests awaiting review
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.DocumentRevisionRequest "Pending requests, oldest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/document-revisions/pending [get]
func ListPendingDocumentRevisions(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListPendingDocumentRevisions")
	defer span.End()

	requests, err := moderationService.ListPendingDocumentRevisions(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// DecideDocumentRevision godoc
// @Summary Approve or reject a document revision request
// @Description Approval replaces the profile's identity document and marks the account verified. The request is consumed either way; a concurrent second decision gets a 404.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Revision request ID"
// @Param data body DecisionRequest true "Verdict"
// @Success 200 {object} MessageResponse "Decision applied"
// @Failure 400 {object} ErrorResponse "Invalid action"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 404 {object} ErrorResponse "Request not found or already decided"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/document-revisions/{id}/decide [post]
func DecideDocumentRevision(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DecideDocumentRevision")
	defer span.End()

	requestID, action, _, ok := parseDecision(c)
	if !ok {
		return
	}

	if err := moderationService.DecideDocumentRevision(ctx, requestID, action); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Decision applied"})
}

// SettingsRequest is the admin-editable settings payload
type SettingsRequest struct {
	ForbiddenKeywords []string `json:"forbidden_keywords"`
	SupportEmail      string   `json:"support_email,omitempty"`
}

// GetSettings godoc
// @Summary Get the platform settings
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.PlatformSettings "Settings"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/settings [get]
func GetSettings(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetSettings")
	defer span.End()

	settings, err := settingsService.GetOrInitSettings(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update the platform settings
// @Description Replaces the forbidden keyword list and support address. Takes effect for subsequent pitch submissions.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body SettingsRequest true "New settings"
// @Success 200 {object} models.PlatformSettings "Updated settings"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/settings [put]
func UpdateSettings(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateSettings")
	defer span.End()

	var request SettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if request.SupportEmail != "" {
		if err := utils.ValidateEmail(request.SupportEmail); err != nil {
			respondError(c, err)
			return
		}
	}

	settings, err := settingsService.UpdateSettings(ctx, request.ForbiddenKeywords, request.SupportEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// CacheReadRequest names a cache key to inspect
type CacheReadRequest struct {
	Key string `json:"key" binding:"required" example:"settings:platform"`
}

// CacheReadResponse reports the key's cached value and TTL
type CacheReadResponse struct {
	Key    string      `json:"key"`
	Value  interface{} `json:"value"`
	Exists bool        `json:"exists"`
	TTL    int64       `json:"ttl_seconds"`
}

// ReadCacheKey godoc
// @Summary Read a cache key
// @Description Lets administrators inspect any Redis key for debugging
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body CacheReadRequest true "Cache key"
// @Success 200 {object} CacheReadResponse "Cached value"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/cache/read [post]
func ReadCacheKey(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ReadCacheKey")
	defer span.End()

	var request CacheReadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	utils.AddSpanAttribute(span, "cache.key", request.Key)

	response := CacheReadResponse{Key: request.Key, TTL: -1}

	value, err := config.Redis.Get(ctx, request.Key).Result()
	if err == nil {
		response.Exists = true
		response.Value = value
		if ttl, ttlErr := config.Redis.TTL(ctx, request.Key).Result(); ttlErr == nil {
			response.TTL = int64(ttl.Seconds())
		}
		observability.CacheHits.WithLabelValues("admin_cache_read").Inc()
	} else if !errors.Is(err, redis.Nil) {
		observability.Logger().Error("failed to read cache key", zap.Error(err), zap.String("key", request.Key))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read from cache"})
		return
	}

	c.JSON(http.StatusOK, response)
}
