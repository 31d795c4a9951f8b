package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

// SMTPConfig holds the SMTP server settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailService sends transactional mail. When no SMTP credentials are
// configured the service logs the message instead, which keeps local
// development working without a mail server.
type EmailService struct {
	config SMTPConfig
}

// NewEmailService creates a new email service
func NewEmailService(config SMTPConfig) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) devMode() bool {
	return s.config.Host == "" || s.config.Username == ""
}

// SendEmail sends an HTML email to the given recipient
func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	if s.devMode() {
		logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("SMTP not configured, skipping email delivery")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, to, msg)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendWithTLS connects over implicit TLS (port 465 style servers)
func (s *EmailService) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to establish TLS connection: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// SendPasswordResetEmail sends the password reset link for a requested reset
func (s *EmailService) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	subject := "Chronicle - Password Reset Request"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password Reset</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset your Chronicle password. Click the button below to choose a new one:</p>
  <p style="margin: 24px 0;">
    <a href="%s" style="background-color: #2d6cdf; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a>
  </p>
  <p>This link expires in %d minutes. If you did not request a reset, you can safely ignore this email.</p>
  <p>— The Chronicle Team</p>
</body>
</html>`, name, resetURL, int(expiresIn.Minutes()))

	return s.SendEmail(to, subject, body)
}

// SendCertificateIssuedEmail notifies a student that a certificate was issued
func (s *EmailService) SendCertificateIssuedEmail(to, name, certificateName, serialNo string) error {
	subject := "Chronicle - Certificate Issued"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Certificate Issued</h2>
  <p>Hi %s,</p>
  <p>Your <strong>%s</strong> certificate has been issued.</p>
  <p>Serial number: <strong>%s</strong></p>
  <p>You can download it from your Chronicle profile.</p>
  <p>— The Chronicle Team</p>
</body>
</html>`, name, certificateName, serialNo)

	return s.SendEmail(to, subject, body)
}
