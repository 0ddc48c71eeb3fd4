package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
	"github.com/google/uuid"
)

// SMTPConfig holds relay settings for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	cfg SMTPConfig
	log *slog.Logger
}

func NewSMTPSender(cfg SMTPConfig, log *slog.Logger) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, log: log}
}

func (s *SMTPSender) Accepts(d Delivery) bool {
	return d.To != ""
}

// Send delivers d and returns the Message-ID it stamped on the mail.
func (s *SMTPSender) Send(ctx context.Context, d Delivery) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	m := mailyak.New(net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)), auth)
	if err := compose(m, s.cfg.From, d); err != nil {
		return "", err
	}
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.Host)
	m.SetHeader("Message-ID", id)

	if err := m.Send(); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	s.log.Debug("smtp message sent", "to", d.To, "message_id", id)
	return id, nil
}
