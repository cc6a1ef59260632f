package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
)

// ErrNotConfigured means the sender, credential or recipient is unset.
var ErrNotConfigured = errors.New("email credentials are not set")

// NotificationError reports a notification that was not delivered.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification not sent: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Notifier relays records to the configured recipient
type Notifier struct {
	cfg    config.Mail
	sender Sender
	logger *zap.Logger
}

// Option configures a Notifier
type Option func(*Notifier)

// WithSender replaces the SMTP transport
func WithSender(s Sender) Option {
	return func(n *Notifier) {
		n.sender = s
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(n *Notifier) {
		n.logger = l
	}
}

// New creates a Notifier for cfg
func New(cfg config.Mail, opts ...Option) *Notifier {
	n := &Notifier{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.sender == nil {
		n.sender = NewSMTPSender(cfg)
	}
	return n
}

// Configured reports whether Notify will attempt a send.
func (n *Notifier) Configured() bool {
	return n.cfg.Configured()
}

// Notify sends one notification for rec.
func (n *Notifier) Notify(ctx context.Context, rec model.Record) error {
	if missing := n.cfg.Missing(); len(missing) > 0 {
		return &NotificationError{
			Err: fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", ")),
		}
	}

	if err := n.send(ctx, Compose(n.cfg, rec)); err != nil {
		return &NotificationError{Err: err}
	}

	n.logger.Debug("notification sent",
		zap.Int64("record_id", rec.ID),
		zap.String("relay", fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)),
	)
	return nil
}

// send delivers msg, giving up after the configured timeout even if the
// transport does not honour ctx.
func (n *Notifier) send(ctx context.Context, msg Message) error {
	if n.cfg.Timeout <= 0 {
		return n.sender.Send(ctx, msg)
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- n.sender.Send(ctx, msg) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("relay did not answer within %s: %w", n.cfg.Timeout, ctx.Err())
	}
}
