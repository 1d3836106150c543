package email

import (
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openclep/clepfinder/internal/app/models"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendPolicyUpdateDigest(institutionName string, diCode int64, actions []models.UpdateAction) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	AdminTo   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendPolicyUpdateDigest notifies the site operator that an institution
// changed its CLEP policies through the portal.
func (s *EmailServiceImpl) SendPolicyUpdateDigest(institutionName string, diCode int64, actions []models.UpdateAction) error {
	// Without SMTP credentials, log the digest instead of sending.
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Info().
			Str("institution", institutionName).
			Int64("diCode", diCode).
			Int("updates", len(actions)).
			Msg("SMTP credentials not configured - policy update digest not sent")
		return nil
	}

	subject := fmt.Sprintf("CLEP policy updates from %s", institutionName)

	var rows strings.Builder
	for _, a := range actions {
		rows.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>", a.Exam, a.Field, a.Value))
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Policy updates received</h2>
				<p>%s (DI code %d) applied %d update(s) through the portal:</p>
				<table border="1" cellpadding="6" cellspacing="0">
					<tr><th>Exam</th><th>Field</th><th>New value</th></tr>
					%s
				</table>
			</div>
		</body>
		</html>
	`, institutionName, diCode, len(actions), rows.String())

	return s.sendHTMLEmail(s.config.AdminTo, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
