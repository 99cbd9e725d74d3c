package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venturelink/app-venturelink/internal/middleware"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/services"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

// PitchRequest wraps a pitch payload with the draft flag
type PitchRequest struct {
	Draft bool              `json:"draft"`
	Pitch models.PitchInput `json:"pitch"`
}

// AssetUploadRequest carries a base64-encoded file for the blob store
type AssetUploadRequest struct {
	Data   string `json:"data" binding:"required"`
	Folder string `json:"folder" example:"pitch-decks"`
}

// AssetUploadResponse returns the stored asset's URL
type AssetUploadResponse struct {
	URL string `json:"url"`
}

// UploadAsset godoc
// @Summary Upload a pitch asset
// @Description Stores a base64-encoded file and returns its URL for use in pitch fields
// @Tags pitches
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body AssetUploadRequest true "Base64 payload"
// @Success 201 {object} AssetUploadResponse "Stored asset URL"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Upload failed"
// @Router /pitches/assets [post]
func UploadAsset(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UploadAsset")
	defer span.End()

	var request AssetUploadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if request.Folder == "" {
		request.Folder = "assets"
	}

	url, err := blobService.Upload(ctx, request.Data, request.Folder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AssetUploadResponse{URL: url})
}

// CreatePitch godoc
// @Summary Create a pitch
// @Description Stores a new pitch. With draft set only a business name is needed; otherwise every required field must be present and the content must pass the keyword screen.
// @Tags pitches
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body PitchRequest true "Pitch payload"
// @Success 201 {object} models.Pitch "Created pitch"
// @Failure 400 {object} ErrorResponse "Missing required fields"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Entrepreneur role required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches [post]
func CreatePitch(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "CreatePitch")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	ctx, parseSpan := utils.TraceInputParsing(ctx, "pitch_request")
	var request PitchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	pitch, err := pitchService.Create(ctx, callerID, request.Pitch, request.Draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pitch)
}

// ResubmitPitch godoc
// @Summary Update and resubmit a pitch
// @Description Edits a draft or rejected pitch in place. Without the draft flag the pitch re-enters review; a pitch past the rejection limit can no longer be edited.
// @Tags pitches
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Pitch ID"
// @Param data body PitchRequest true "Changed fields"
// @Success 200 {object} models.Pitch "Updated pitch"
// @Failure 400 {object} ErrorResponse "Missing required fields"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Not the owner, not editable, or locked"
// @Failure 404 {object} ErrorResponse "Pitch not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches/{id} [put]
func ResubmitPitch(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ResubmitPitch")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	pitchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	ctx, parseSpan := utils.TraceInputParsing(ctx, "pitch_request")
	var request PitchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	pitch, err := pitchService.Resubmit(ctx, callerID, pitchID, request.Pitch, request.Draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitch)
}

// SubmitPitchRevision godoc
// @Summary Queue an update to an approved pitch
// @Description Submits field changes against a live pitch. The live version stays visible until an admin approves the request.
// @Tags pitches
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Pitch ID"
// @Param data body models.PitchInput true "Changed fields"
// @Success 201 {object} models.PitchRevisionRequest "Queued request"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Not the owner, pitch not approved, or a request is already pending"
// @Failure 404 {object} ErrorResponse "Pitch not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches/{id}/revisions [post]
func SubmitPitchRevision(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SubmitPitchRevision")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	pitchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	ctx, parseSpan := utils.TraceInputParsing(ctx, "pitch_input")
	var changes models.PitchInput
	if err := c.ShouldBindJSON(&changes); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	request, err := pitchService.SubmitRevision(ctx, callerID, pitchID, changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetPitch godoc
// @Summary Get a pitch by ID
// @Description Returns a pitch. Non-owners and non-admins only see approved pitches.
// @Tags pitches
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Pitch ID"
// @Success 200 {object} models.Pitch "Pitch"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Pitch not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches/{id} [get]
func GetPitch(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetPitch")
	defer span.End()

	pitchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	pitch, err := pitchService.Get(ctx, pitchID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Unapproved pitches are visible to their owner and the moderators only
	callerID, _ := middleware.CallerID(c)
	if pitch.Status != models.PitchStatusApproved && !middleware.IsAdmin(c) && callerID != pitch.EntrepreneurID {
		respondError(c, models.ErrPitchNotFound)
		return
	}
	c.JSON(http.StatusOK, pitch)
}

// ListMyPitches godoc
// @Summary List the caller's pitches
// @Tags pitches
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Pitch "Pitches, newest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches/mine [get]
func ListMyPitches(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListMyPitches")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	pitches, err := pitchService.ListByEntrepreneur(ctx, callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitches)
}

// ListApprovedPitches godoc
// @Summary Browse approved pitches
// @Description The investor-facing catalog. Supports optional industry, stage and country filters.
// @Tags pitches
// @Produce json
// @Security ApiKeyAuth
// @Param industry query string false "Industry filter"
// @Param stage query string false "Stage filter"
// @Param country query string false "Country filter"
// @Success 200 {array} models.Pitch "Approved pitches"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches [get]
func ListApprovedPitches(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListApprovedPitches")
	defer span.End()

	filter := services.PitchFilter{
		Industry: c.Query("industry"),
		Stage:    c.Query("stage"),
		Country:  c.Query("country"),
	}

	pitches, err := pitchService.ListApproved(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pitches)
}

// DeletePitch godoc
// @Summary Delete a pitch
// @Description Removes the caller's pitch with its uploads and queued revision requests
// @Tags pitches
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Pitch ID"
// @Success 200 {object} MessageResponse "Pitch deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Pitch not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /pitches/{id} [delete]
func DeletePitch(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeletePitch")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	pitchID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	if err := pitchService.Delete(ctx, callerID, pitchID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Pitch deleted"})
}
