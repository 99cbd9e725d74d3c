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

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Tags profiles
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile "Profile"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me [get]
func GetMyProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetMyProfile")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	profile, err := profileService.Get(ctx, callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Update the caller's profile
// @Description Edits the self-service fields. Identity documents change through the document revision queue instead.
// @Tags profiles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body services.ProfileUpdateInput true "Fields to update"
// @Success 200 {object} models.Profile "Updated profile"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me [put]
func UpdateMyProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateMyProfile")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	ctx, parseSpan := utils.TraceInputParsing(ctx, "profile_update_input")
	var input services.ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	profile, err := profileService.Update(ctx, callerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SubmitDocumentRevision godoc
// @Summary Submit new identity documents for review
// @Description Queues replacement identity documents. The live document is untouched until an admin approves; only one pending request per profile is allowed.
// @Tags profiles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body services.DocumentUpload true "Document payload with base64 scans"
// @Success 201 {object} models.DocumentRevisionRequest "Queued request"
// @Failure 400 {object} ErrorResponse "Invalid document payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 403 {object} ErrorResponse "A pending request already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me/documents [post]
func SubmitDocumentRevision(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SubmitDocumentRevision")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	ctx, parseSpan := utils.TraceInputParsing(ctx, "document_upload")
	var upload services.DocumentUpload
	if err := c.ShouldBindJSON(&upload); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	request, err := profileService.SubmitDocumentRevision(ctx, callerID, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// DeleteMyAccount godoc
// @Summary Delete the caller's account
// @Description Removes the profile with its pitches, uploads, queued revision requests and notifications
// @Tags profiles
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} MessageResponse "Account deleted"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me [delete]
func DeleteMyAccount(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeleteMyAccount")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	if err := profileService.DeleteAccount(ctx, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted"})
}

// GetProfile godoc
// @Summary Get a profile by ID
// @Description Returns another member's profile. Identity document details are only included for admins and the owner.
// @Tags profiles
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile "Profile"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id} [get]
func GetProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetProfile")
	defer span.End()

	profileID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	profile, err := profileService.Get(ctx, profileID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Identity documents stay between the owner and the moderators
	callerID, _ := middleware.CallerID(c)
	if !middleware.IsAdmin(c) && callerID != profile.ID {
		profile.Document = models.IdentityDocument{}
	}
	c.JSON(http.StatusOK, profile)
}
