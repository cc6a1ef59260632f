package intake

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/identity-intake/pkg/audit"
	"github.com/doodlesbykumbi/identity-intake/pkg/extract"
	"github.com/doodlesbykumbi/identity-intake/pkg/logging"
	"github.com/doodlesbykumbi/identity-intake/pkg/metrics"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/notify"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

var (
	// ErrNoText is returned when the submission carries no text.
	ErrNoText = errors.New("no text provided")

	// ErrIncomplete is returned when any required field cannot be extracted.
	ErrIncomplete = errors.New("failed to extract all required fields")
)

// NotificationStatus is the outcome of the notification step.
type NotificationStatus string

const (
	NotificationSent    NotificationStatus = metrics.NotificationSent
	NotificationFailed  NotificationStatus = metrics.NotificationFailed
	NotificationSkipped NotificationStatus = metrics.NotificationSkipped
)

// Notifier relays a stored record.
type Notifier interface {
	Notify(ctx context.Context, rec model.Record) error
}

// Result describes a processed submission.
type Result struct {
	RecordID     int64
	Notification NotificationStatus
}

// Submission is one inbound request.
type Submission struct {
	Text     string
	ClientIP string
}

// Service processes submissions
type Service struct {
	records  store.RecordStore
	notifier Notifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
	audit    *audit.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAudit sets the audit logger
func WithAudit(a *audit.Logger) Option {
	return func(s *Service) {
		s.audit = a
	}
}

// NewService creates a Service
func NewService(records store.RecordStore, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		records:  records,
		notifier: notifier,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process extracts, stores and relays one submission.
func (s *Service) Process(ctx context.Context, sub Submission) (*Result, error) {
	fields := logging.ContextFields(ctx)
	requestID := logging.RequestIDFromContext(ctx)

	if strings.TrimSpace(sub.Text) == "" {
		s.reject(ctx, sub, metrics.OutcomeNoText, ErrNoText)
		return nil, ErrNoText
	}

	rec, err := extract.Record(sub.Text)
	if err != nil {
		var fieldErr *extract.FieldError
		if errors.As(err, &fieldErr) {
			fields = append(fields, zap.String("label", fieldErr.Label))
		}
		s.logger.Info("extraction failed", append(fields, zap.Error(err))...)
		s.reject(ctx, sub, metrics.OutcomeIncomplete, err)
		return nil, ErrIncomplete
	}

	id, err := s.records.Insert(ctx, &rec)
	if err != nil {
		s.logger.Error("failed to store record", append(fields, zap.Error(err))...)
		s.metrics.ObserveRequest(metrics.OutcomeStoreFailed)
		s.audit.Log(audit.RecordStoredEvent{
			RequestID:    requestID,
			ClientIP:     sub.ClientIP,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	s.metrics.IncrementRecordsStored()
	s.audit.Log(audit.RecordStoredEvent{
		RequestID: requestID,
		ClientIP:  sub.ClientIP,
		RecordID:  id,
		Success:   true,
	})
	s.logger.Info("record stored", append(fields, zap.Int64("record_id", id))...)

	status := s.notify(ctx, rec)
	s.metrics.ObserveRequest(metrics.OutcomeProcessed)

	return &Result{RecordID: id, Notification: status}, nil
}

// notify relays rec and reports the outcome. Failures never propagate.
func (s *Service) notify(ctx context.Context, rec model.Record) NotificationStatus {
	fields := append(logging.ContextFields(ctx), zap.Int64("record_id", rec.ID))

	// The record is already stored, so a client that goes away must not
	// cancel its notification.
	err := s.notifier.Notify(context.WithoutCancel(ctx), rec)
	status := NotificationSent
	switch {
	case err == nil:
	case errors.Is(err, notify.ErrNotConfigured):
		status = NotificationSkipped
		s.logger.Warn("notification skipped", append(fields, zap.Error(err))...)
	default:
		status = NotificationFailed
		s.logger.Warn("failed to send notification", append(fields, zap.Error(err))...)
	}

	s.metrics.ObserveNotification(string(status))
	event := audit.NotificationEvent{
		RequestID: logging.RequestIDFromContext(ctx),
		RecordID:  rec.ID,
		Status:    string(status),
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	s.audit.Log(event)
	return status
}

func (s *Service) reject(ctx context.Context, sub Submission, outcome string, reason error) {
	s.metrics.ObserveRequest(outcome)
	s.audit.Log(audit.IntakeRejectedEvent{
		RequestID: logging.RequestIDFromContext(ctx),
		ClientIP:  sub.ClientIP,
		Reason:    reason.Error(),
	})
}
