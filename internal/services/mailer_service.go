package services

import (
	"fmt"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/observability"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailerService sends transactional email over SMTP. Sends are awaited but a
// delivery failure is never rolled back against: callers log and move on.
type MailerService struct {
	logger *zap.Logger
	dialer *gomail.Dialer
}

// NewMailerService creates a new mailer service
func NewMailerService(logger *zap.Logger) *MailerService {
	return &MailerService{
		logger: logger,
		dialer: gomail.NewDialer(
			config.AppConfig.SMTPHost,
			config.AppConfig.SMTPPort,
			config.AppConfig.SMTPUser,
			config.AppConfig.SMTPPassword,
		),
	}
}

// send builds and delivers a single HTML message
func (s *MailerService) send(kind, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", config.AppConfig.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		observability.EmailsSent.WithLabelValues(kind, "error").Inc()
		s.logger.Error("failed to send email",
			zap.String("kind", kind),
			zap.String("to", observability.MaskEmail(to)),
			zap.Error(err))
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	observability.EmailsSent.WithLabelValues(kind, "success").Inc()
	s.logger.Info("email sent",
		zap.String("kind", kind),
		zap.String("to", observability.MaskEmail(to)))
	return nil
}

// SendApproval notifies an applicant that their profile was approved
func (s *MailerService) SendApproval(to, fullName string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your VentureLink profile has been approved. You can now use the full platform.</p>",
		fullName)
	return s.send("approval", to, "Your profile has been approved", body)
}

// SendRejection notifies an applicant that their profile was rejected,
// carrying the admin's reason
func (s *MailerService) SendRejection(to, fullName, reason string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your VentureLink profile was not approved.</p><p>Reason: %s</p><p>You may update your information and try again.</p>",
		fullName, reason)
	return s.send("rejection", to, "Your profile was not approved", body)
}

// SendEmailVerification sends the email-ownership verification link
func (s *MailerService) SendEmailVerification(to, fullName, token string) error {
	link := fmt.Sprintf("%s/v1/auth/verify-email?token=%s", config.AppConfig.PublicBaseURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please confirm your email address by following <a href=%q>this link</a>.</p>",
		fullName, link)
	return s.send("verify_email", to, "Confirm your email address", body)
}

// SendPasswordReset sends the password reset link
func (s *MailerService) SendPasswordReset(to, fullName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.PublicBaseURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>A password reset was requested for your account. Follow <a href=%q>this link</a> to choose a new password. The link expires shortly.</p>",
		fullName, link)
	return s.send("reset_password", to, "Reset your password", body)
}
