// AngelaMos | 2026
// sender.go

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/fofanamamadou/affiliation-project/internal/config"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender picks the SMTP transport when configured, otherwise a sender
// that only logs. Keeps local development working without a mail server.
func NewSender(cfg config.SMTPConfig) Sender {
	if cfg.Enabled {
		return &SMTPSender{cfg: cfg}
	}
	return &LogSender{}
}

type LogSender struct{}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	slog.Info("email (log sender)", "to", to, "subject", subject)
	return nil
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
