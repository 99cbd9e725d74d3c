package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProfileService owns account registration, authentication, the admin
// approval workflow for profiles and the identity-document revision queue.
type ProfileService struct {
	logger        *zap.Logger
	blobs         *BlobService
	mailer        *MailerService
	notifications *NotificationService
	pitches       *PitchService
}

// NewProfileService creates a new profile service
func NewProfileService(logger *zap.Logger, blobs *BlobService, mailer *MailerService, notifications *NotificationService, pitches *PitchService) *ProfileService {
	return &ProfileService{
		logger:        logger,
		blobs:         blobs,
		mailer:        mailer,
		notifications: notifications,
		pitches:       pitches,
	}
}

// DocumentUpload carries an identity document submission with base64-encoded
// scans. Exactly one of the cnic and passport field groups must be supplied.
type DocumentUpload struct {
	DocumentType     models.DocumentType `json:"document_type"`
	CnicNumber       string              `json:"cnic_number,omitempty"`
	CnicFrontData    string              `json:"cnic_front_data,omitempty"`
	CnicBackData     string              `json:"cnic_back_data,omitempty"`
	PassportNumber   string              `json:"passport_number,omitempty"`
	PassportCountry  string              `json:"passport_country,omitempty"`
	PassportExpiry   *time.Time          `json:"passport_expiry,omitempty"`
	PassportScanData string              `json:"passport_scan_data,omitempty"`
}

// RegisterInput is the registration payload
type RegisterInput struct {
	UserType        models.Role    `json:"user_type"`
	FullName        string         `json:"full_name"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	Phone           string         `json:"phone,omitempty"`
	Country         string         `json:"country,omitempty"`
	City            string         `json:"city,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	FirmName        string         `json:"firm_name,omitempty"`
	InvestmentFocus string         `json:"investment_focus,omitempty"`
	Document        DocumentUpload `json:"document"`
}

// uploadDocument pushes the submitted scans to the blob store and returns the
// resulting identity document, validated for the mutual-exclusivity rule.
// On validation failure the just-uploaded scans are discarded again.
func (s *ProfileService) uploadDocument(ctx context.Context, upload *DocumentUpload) (*models.IdentityDocument, error) {
	doc := models.IdentityDocument{
		DocumentType:    upload.DocumentType,
		CnicNumber:      upload.CnicNumber,
		PassportNumber:  upload.PassportNumber,
		PassportCountry: upload.PassportCountry,
		PassportExpiry:  upload.PassportExpiry,
	}

	var err error
	switch upload.DocumentType {
	case models.DocumentTypeCnic:
		if upload.CnicFrontData != "" {
			if doc.CnicFrontURL, err = s.blobs.Upload(ctx, upload.CnicFrontData, "documents"); err != nil {
				return nil, fmt.Errorf("failed to upload cnic front scan: %w", err)
			}
		}
		if upload.CnicBackData != "" {
			if doc.CnicBackURL, err = s.blobs.Upload(ctx, upload.CnicBackData, "documents"); err != nil {
				s.blobs.DeleteAll(ctx, doc.ScanURLs())
				return nil, fmt.Errorf("failed to upload cnic back scan: %w", err)
			}
		}
	case models.DocumentTypePassport:
		if upload.PassportScanData != "" {
			if doc.PassportScanURL, err = s.blobs.Upload(ctx, upload.PassportScanData, "documents"); err != nil {
				return nil, fmt.Errorf("failed to upload passport scan: %w", err)
			}
		}
	default:
		return nil, models.ErrInvalidDocumentType
	}

	if err := doc.Validate(); err != nil {
		s.blobs.DeleteAll(ctx, doc.ScanURLs())
		return nil, err
	}
	return &doc, nil
}

// Register creates a new profile awaiting admin approval and sends the
// email-ownership verification link
func (s *ProfileService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	ctx, span, done := utils.TraceOperation(ctx, "profile.register", map[string]interface{}{
		"user.type": string(input.UserType),
	})
	defer done()

	if input.UserType != models.RoleEntrepreneur && input.UserType != models.RoleInvestor {
		return nil, models.NewValidationError("user type must be entrepreneur or investor")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, &models.MissingFieldsError{Fields: []string{"Full Name"}}
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doc, err := s.uploadDocument(ctx, &input.Document)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{
		UserType:        input.UserType,
		FullName:        input.FullName,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:    string(hash),
		Phone:           input.Phone,
		Country:         input.Country,
		City:            input.City,
		Bio:             input.Bio,
		FirmName:        input.FirmName,
		InvestmentFocus: input.InvestmentFocus,
		Status:          models.ProfileStatusPending,
		Document:        *doc,
	}
	profile.BeforeCreate()

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	result, err := collection.InsertOne(ctx, profile)
	if err != nil {
		s.blobs.DeleteAll(ctx, doc.ScanURLs())
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrEmailTaken
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	profile.ID = result.InsertedID.(primitive.ObjectID)

	// Delivery failures leave the account usable; the link can be re-requested
	if token, err := utils.IssueEmailToken(profile.ID, profile.Email, utils.PurposeVerifyEmail); err == nil {
		if err := s.mailer.SendEmailVerification(profile.Email, profile.FullName, token); err != nil {
			s.logger.Warn("verification email not delivered",
				zap.String("profile_id", profile.ID.Hex()))
		}
	}

	s.notifications.NotifyAdmins(ctx,
		fmt.Sprintf("New %s registration from %s is awaiting review.", profile.UserType, profile.FullName),
		models.SeverityInfo, &profile.ID, "profile")

	s.logger.Info("profile registered",
		zap.String("profile_id", profile.ID.Hex()),
		zap.String("user_type", string(profile.UserType)),
		zap.String("email", observability.MaskEmail(profile.Email)))
	return &profile, nil
}

// Login verifies credentials and issues an access token
func (s *ProfileService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	ctx, span, done := utils.TraceOperation(ctx, "profile.login", nil)
	defer done()

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	var profile models.Profile
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, models.ErrInvalidCredentials
		}
		utils.RecordErrorInSpan(span, err, nil)
		return "", nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := utils.IssueAccessToken(profile.ID, profile.UserType, profile.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.logger.Info("profile logged in",
		zap.String("profile_id", profile.ID.Hex()),
		zap.String("email", observability.MaskEmail(profile.Email)))
	return token, &profile, nil
}

// VerifyEmail confirms email ownership from the mailed token
func (s *ProfileService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := utils.ParseEmailToken(token, utils.PurposeVerifyEmail)
	if err != nil {
		return models.NewValidationError("invalid or expired verification token")
	}
	profileID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return models.ErrInvalidID
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": profileID},
		bson.M{"$set": bson.M{"is_email_verified": true, "updated_at": nowUTC()}})
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProfileNotFound
	}

	s.logger.Info("email verified", zap.String("profile_id", profileID.Hex()))
	return nil
}

// RequestPasswordReset mails a reset link if the address is known. The caller
// always gets a success response; an unknown address is not disclosed.
func (s *ProfileService) RequestPasswordReset(ctx context.Context, email string) error {
	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	var profile models.Profile
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	token, err := utils.IssueEmailToken(profile.ID, profile.Email, utils.PurposeResetPassword)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(profile.Email, profile.FullName, token); err != nil {
		s.logger.Warn("password reset email not delivered",
			zap.String("profile_id", profile.ID.Hex()))
	}
	return nil
}

// ResetPassword sets a new password from the mailed token
func (s *ProfileService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := utils.ParseEmailToken(token, utils.PurposeResetPassword)
	if err != nil {
		return models.NewValidationError("invalid or expired reset token")
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}
	profileID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return models.ErrInvalidID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": profileID},
		bson.M{"$set": bson.M{"password_hash": string(hash), "updated_at": nowUTC()}})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrProfileNotFound
	}

	s.logger.Info("password reset", zap.String("profile_id", profileID.Hex()))
	return nil
}

// Get loads a single profile
func (s *ProfileService) Get(ctx context.Context, profileID primitive.ObjectID) (*models.Profile, error) {
	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	var profile models.Profile
	if err := collection.FindOne(ctx, bson.M{"_id": profileID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// ProfileUpdateInput carries the self-service editable fields. Nil fields
// keep their prior values.
type ProfileUpdateInput struct {
	FullName        *string `json:"full_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Country         *string `json:"country,omitempty"`
	City            *string `json:"city,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	FirmName        *string `json:"firm_name,omitempty"`
	InvestmentFocus *string `json:"investment_focus,omitempty"`
}

// Update edits the non-moderated profile fields. Identity documents change
// through the revision queue instead.
func (s *ProfileService) Update(ctx context.Context, profileID primitive.ObjectID, input ProfileUpdateInput) (*models.Profile, error) {
	set := bson.M{"updated_at": nowUTC()}
	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		set["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Country != nil {
		set["country"] = *input.Country
	}
	if input.City != nil {
		set["city"] = *input.City
	}
	if input.Bio != nil {
		set["bio"] = *input.Bio
	}
	if input.FirmName != nil {
		set["firm_name"] = *input.FirmName
	}
	if input.InvestmentFocus != nil {
		set["investment_focus"] = *input.InvestmentFocus
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	var profile models.Profile
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": profileID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}

// Approve marks a profile approved. The email address must be verified first;
// approval clears any prior rejection feedback.
func (s *ProfileService) Approve(ctx context.Context, profileID primitive.ObjectID) error {
	ctx, span, done := utils.TraceOperation(ctx, "profile.approve", map[string]interface{}{
		"profile.id": profileID.Hex(),
	})
	defer done()

	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return err
	}
	if !profile.IsEmailVerified {
		return models.ErrEmailNotVerified
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	if _, err := collection.UpdateOne(ctx,
		bson.M{"_id": profileID},
		bson.M{"$set": bson.M{
			"status":     models.ProfileStatusApproved,
			"updated_at": nowUTC(),
		}, "$unset": bson.M{
			"rejection_reason": "",
			"admin_comments":   "",
		}}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to approve profile: %w", err)
	}

	observability.ModerationDecisions.WithLabelValues("profile", string(models.ActionApprove)).Inc()

	if err := s.mailer.SendApproval(profile.Email, profile.FullName); err != nil {
		s.logger.Warn("approval email not delivered", zap.String("profile_id", profileID.Hex()))
	}
	s.notifications.Notify(ctx, profileID, profile.UserType,
		"Your profile has been approved. Welcome to VentureLink.",
		models.SeveritySuccess, &profileID, "profile")

	s.logger.Info("profile approved", zap.String("profile_id", profileID.Hex()))
	return nil
}

// Reject marks a profile rejected with mandatory admin comments. The
// notification carries a truncated copy of the comments; the email carries
// them in full.
func (s *ProfileService) Reject(ctx context.Context, profileID primitive.ObjectID, comments string) error {
	ctx, span, done := utils.TraceOperation(ctx, "profile.reject", map[string]interface{}{
		"profile.id": profileID.Hex(),
	})
	defer done()

	if strings.TrimSpace(comments) == "" {
		return models.ErrCommentsRequired
	}

	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return err
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	if _, err := collection.UpdateOne(ctx,
		bson.M{"_id": profileID},
		bson.M{"$set": bson.M{
			"status":           models.ProfileStatusRejected,
			"rejection_reason": comments,
			"admin_comments":   comments,
			"updated_at":       nowUTC(),
		}}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to reject profile: %w", err)
	}

	observability.ModerationDecisions.WithLabelValues("profile", string(models.ActionReject)).Inc()

	if err := s.mailer.SendRejection(profile.Email, profile.FullName, comments); err != nil {
		s.logger.Warn("rejection email not delivered", zap.String("profile_id", profileID.Hex()))
	}
	s.notifications.Notify(ctx, profileID, profile.UserType,
		fmt.Sprintf("Your profile was not approved: %s", utils.TruncateMessage(comments, 100)),
		models.SeverityError, &profileID, "profile")

	s.logger.Info("profile rejected", zap.String("profile_id", profileID.Hex()))
	return nil
}

// ListByStatus returns the admin queue of profiles in a moderation state,
// oldest first
func (s *ProfileService) ListByStatus(ctx context.Context, status models.ProfileStatus) ([]models.Profile, error) {
	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)

	cursor, err := collection.Find(ctx,
		bson.M{"status": status},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

// SubmitDocumentRevision uploads new identity scans and queues them for admin
// review. The profile's live document stays untouched until approval. The
// unique index on pending requests makes a second submission fail while one
// is still in the queue.
func (s *ProfileService) SubmitDocumentRevision(ctx context.Context, profileID primitive.ObjectID, upload DocumentUpload) (*models.DocumentRevisionRequest, error) {
	ctx, span, done := utils.TraceOperation(ctx, "profile.submit_document_revision", map[string]interface{}{
		"profile.id": profileID.Hex(),
	})
	defer done()

	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	doc, err := s.uploadDocument(ctx, &upload)
	if err != nil {
		return nil, err
	}

	request := models.DocumentRevisionRequest{
		ProfileID: profileID,
		Document:  *doc,
		Status:    models.RevisionStatusPending,
		CreatedAt: nowUTC(),
	}

	collection := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)
	result, err := collection.InsertOne(ctx, request)
	if err != nil {
		// The scans belong to nothing if the request is refused
		s.blobs.DeleteAll(ctx, doc.ScanURLs())
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrPendingRevisionExists
		}
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to create document revision request: %w", err)
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	s.notifications.NotifyAdmins(ctx,
		fmt.Sprintf("%s submitted new identity documents for review.", profile.FullName),
		models.SeverityInfo, &request.ID, "document_revision")

	number := doc.CnicNumber
	if doc.DocumentType == models.DocumentTypePassport {
		number = doc.PassportNumber
	}
	s.logger.Info("document revision submitted",
		zap.String("profile_id", profileID.Hex()),
		zap.String("request_id", request.ID.Hex()),
		zap.String("document_type", string(doc.DocumentType)),
		zap.String("document_number", observability.MaskDocumentNumber(number)))
	return &request, nil
}

// DeleteAccount removes a profile and everything hanging off it: pitches and
// their blobs, identity scans, queued revision requests, notifications.
// Blob cleanup is best-effort; record deletion is not.
func (s *ProfileService) DeleteAccount(ctx context.Context, profileID primitive.ObjectID) error {
	ctx, span, done := utils.TraceOperation(ctx, "profile.delete_account", map[string]interface{}{
		"profile.id": profileID.Hex(),
	})
	defer done()

	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return err
	}

	if profile.UserType == models.RoleEntrepreneur {
		if err := s.pitches.DeleteForEntrepreneur(ctx, profileID); err != nil {
			utils.RecordErrorInSpan(span, err, nil)
			return err
		}
	}

	// Queued document revisions and their scans
	revisions := config.MongoDB.Collection(config.AppConfig.DocumentRevisionCollection)
	cursor, err := revisions.Find(ctx, bson.M{"profile_id": profileID})
	if err == nil {
		for cursor.Next(ctx) {
			var request models.DocumentRevisionRequest
			if err := cursor.Decode(&request); err != nil {
				continue
			}
			s.blobs.DeleteAll(ctx, request.Document.ScanURLs())
		}
		cursor.Close(ctx)
	}
	if _, err := revisions.DeleteMany(ctx, bson.M{"profile_id": profileID}); err != nil {
		s.logger.Error("failed to clear document revisions for deleted account",
			zap.String("profile_id", profileID.Hex()), zap.Error(err))
	}

	s.blobs.DeleteAll(ctx, profile.Document.ScanURLs())

	if err := s.notifications.DeleteForRecipient(ctx, profileID); err != nil {
		s.logger.Error("failed to clear notifications for deleted account",
			zap.String("profile_id", profileID.Hex()), zap.Error(err))
	}

	collection := config.MongoDB.Collection(config.AppConfig.ProfileCollection)
	if _, err := collection.DeleteOne(ctx, bson.M{"_id": profileID}); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.logger.Info("account deleted",
		zap.String("profile_id", profileID.Hex()),
		zap.String("user_type", string(profile.UserType)))
	return nil
}
