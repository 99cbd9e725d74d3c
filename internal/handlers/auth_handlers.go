package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/services"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.opentelemetry.io/otel"
)

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"founder@example.com"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the authenticated profile
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register godoc
// @Summary Register a new profile
// @Description Creates an entrepreneur or investor profile awaiting admin approval and sends the email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param data body services.RegisterInput true "Registration payload"
// @Success 201 {object} models.Profile "Created profile"
// @Failure 400 {object} ErrorResponse "Invalid payload or missing fields"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func Register(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Register")
	defer span.End()

	ctx, parseSpan := utils.TraceInputParsing(ctx, "register_input")
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	parseSpan.End()

	profile, err := profileService.Register(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Login godoc
// @Summary Authenticate a profile
// @Description Verifies credentials and issues a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param data body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse "Token and profile"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func Login(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Login")
	defer span.End()

	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	token, profile, err := profileService.Login(ctx, request.Email, request.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, Profile: profile})
}

// VerifyEmail godoc
// @Summary Confirm email ownership
// @Description Marks the profile's email address verified from the mailed token
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} MessageResponse "Email verified"
// @Failure 400 {object} ErrorResponse "Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/verify-email [get]
func VerifyEmail(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "VerifyEmail")
	defer span.End()

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token query parameter is required"})
		return
	}

	if err := profileService.VerifyEmail(ctx, token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Email verified"})
}

// ForgotPasswordRequest carries the address to send the reset link to
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required" example:"founder@example.com"`
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Mails a reset link when the address is known. Always responds with success so addresses cannot be probed.
// @Tags auth
// @Accept json
// @Produce json
// @Param data body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse "Reset link sent if the address exists"
// @Failure 400 {object} ErrorResponse "Invalid payload"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/forgot-password [post]
func ForgotPassword(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ForgotPassword")
	defer span.End()

	var request ForgotPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := profileService.RequestPasswordReset(ctx, request.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "If the address is registered, a reset link has been sent"})
}

// ResetPasswordRequest carries the reset token and the new password
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword godoc
// @Summary Set a new password
// @Description Replaces the password using the token from the reset email
// @Tags auth
// @Accept json
// @Produce json
// @Param data body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} MessageResponse "Password updated"
// @Failure 400 {object} ErrorResponse "Invalid token or weak password"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/reset-password [post]
func ResetPassword(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ResetPassword")
	defer span.End()

	var request ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := profileService.ResetPassword(ctx, request.Token, request.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}
