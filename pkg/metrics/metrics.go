// Package metrics holds the Prometheus counters exported by the intake server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	OutcomeProcessed   = "processed"
	OutcomeNoText      = "no_text"
	OutcomeIncomplete  = "incomplete"
	OutcomeStoreFailed = "store_failed"
)

// Notification results
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	Requests      *prometheus.CounterVec
	RecordsStored prometheus.Counter
	Notifications *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_requests_total",
			Help: "Total number of process_text requests by outcome",
		}, []string{"outcome"}),
		RecordsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_records_stored_total",
			Help: "Total number of records written to the record store",
		}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of record notifications by result",
		}, []string{"result"}),
	}
}

// ObserveRequest counts one request with the given outcome
func (m *Metrics) ObserveRequest(outcome string) {
	if m != nil {
		m.Requests.WithLabelValues(outcome).Inc()
	}
}

// IncrementRecordsStored increments the stored records counter by 1
func (m *Metrics) IncrementRecordsStored() {
	if m != nil {
		m.RecordsStored.Inc()
	}
}

// ObserveNotification counts one notification attempt with the given result
func (m *Metrics) ObserveNotification(result string) {
	if m != nil {
		m.Notifications.WithLabelValues(result).Inc()
	}
}
