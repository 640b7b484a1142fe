package mailer

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/unicampus/college-api/pkg/config"
)

// Mailer dispatches outbound notification mail.
type Mailer interface {
	SendPasswordReset(toEmail, toName, role, resetID string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	smtp    config.SMTPConfig
	baseURL string
	logger  *zap.Logger
}

// NewSMTPMailer constructs a mailer. frontendBaseURL is the origin reset
// links are built against.
func NewSMTPMailer(smtpCfg config.SMTPConfig, frontendBaseURL string, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{smtp: smtpCfg, baseURL: strings.TrimRight(frontendBaseURL, "/"), logger: logger}
}

// SendPasswordReset mails the reset link for the given reset record. When the
// relay is unconfigured the link is logged instead so development flows keep
// working.
func (m *SMTPMailer) SendPasswordReset(toEmail, toName, role, resetID string) error {
	resetURL := fmt.Sprintf("%s/%s/update-password/%s", m.baseURL, role, resetID)

	if m.smtp.Username == "" || m.smtp.Password == "" {
		m.logger.Warn("smtp credentials not configured, reset mail not sent",
			zap.String("to", toEmail),
			zap.String("reset_url", resetURL),
		)
		return nil
	}

	subject := "Password Reset Request"
	body := fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>A password reset was requested for your account. Click the link below to choose a new password. The link expires in 10 minutes.</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>
</body></html>`, toName, resetURL)

	return m.send(toEmail, subject, body)
}

func (m *SMTPMailer) send(toEmail, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.smtp.FromName, m.smtp.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, headers[k])
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.smtp.Host, m.smtp.Port)
	auth := smtp.PlainAuth("", m.smtp.Username, m.smtp.Password, m.smtp.Host)

	if err := smtp.SendMail(addr, auth, m.smtp.FromEmail, []string{toEmail}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
