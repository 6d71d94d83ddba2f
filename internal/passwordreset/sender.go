package passwordreset

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"docgate-backend/internal/shared/telemetry"
)

// Sender delivers a reset code to the profile's email address. The code
// never travels in an HTTP response.
type Sender interface {
	Send(ctx context.Context, email, code string, expiry time.Time) error
}

// SMTPSender delivers reset codes over SMTP.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (s *SMTPSender) Send(ctx context.Context, email, code string, expiry time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := s.Host + ":" + s.Port
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	msg := strings.Join([]string{
		"From: " + s.From,
		"To: " + email,
		"Subject: Your password reset code",
		"",
		fmt.Sprintf("Your password reset code is %s. It expires at %s.", code, expiry.UTC().Format(time.RFC3339)),
		"",
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, s.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogSender writes the code to the application log instead of sending
// mail. Development only.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, email, code string, expiry time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("password_reset.otp_issued", map[string]any{
		"email":      email,
		"code":       code,
		"expires_at": expiry.UTC().Format(time.RFC3339),
	})
	return nil
}
