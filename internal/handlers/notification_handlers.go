package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venturelink/app-venturelink/internal/middleware"
	"github.com/venturelink/app-venturelink/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

// ListNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} models.Notification "Notifications, newest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications [get]
func ListNotifications(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListNotifications")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	notifications, err := notificationService.List(ctx, callerID, c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse "Marked read"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "MarkNotificationRead")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	if err := notificationService.MarkRead(ctx, callerID, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Notification marked read"})
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse "Deleted"
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 401 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "DeleteNotification")
	defer span.End()

	callerID, err := middleware.CallerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token subject"})
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, models.ErrInvalidID)
		return
	}

	if err := notificationService.Delete(ctx, callerID, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted"})
}
