package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
)

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends through an SMTP relay over implicit TLS with PLAIN auth.
type SMTPSender struct {
	cfg config.Mail
}

// NewSMTPSender creates a sender for the relay described by cfg
func NewSMTPSender(cfg config.Mail) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send opens one session, delivers msg and closes the session.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password.Value()),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("configuring mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending via %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return nil
}
