package audit

import (
	"fmt"
	"strconv"
)

// RecordStoredEvent records the outcome of persisting an intake record.
// It never carries field values, only the assigned id.
type RecordStoredEvent struct {
	RequestID    string
	ClientIP     string
	RecordID     int64
	Success      bool
	ErrorMessage string
}

func (e RecordStoredEvent) MessageID() string {
	return "record-stored"
}

func (e RecordStoredEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("stored intake record %d", e.RecordID)
	}
	msg := "failed to store intake record"
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordStoredEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e RecordStoredEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RecordStoredEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDIntake: {
			"request": e.RequestID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "store",
			"result":    result(e.Success),
		},
	}
	if e.Success {
		sd[SDIDIntake]["record"] = strconv.FormatInt(e.RecordID, 10)
	}
	return sd
}

// NotificationEvent records whether a stored record was relayed by email.
type NotificationEvent struct {
	RequestID    string
	RecordID     int64
	Status       string
	ErrorMessage string
}

func (e NotificationEvent) MessageID() string {
	return "notification"
}

func (e NotificationEvent) Message() string {
	msg := fmt.Sprintf("notification for intake record %d %s", e.RecordID, e.Status)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e NotificationEvent) Severity() Severity {
	if e.Status == "sent" {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e NotificationEvent) Facility() int {
	return FacilityUser
}

func (e NotificationEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDIntake: {
			"request": e.RequestID,
			"record":  strconv.FormatInt(e.RecordID, 10),
		},
		SDIDAction: {
			"operation": "notify",
			"result":    e.Status,
		},
	}
}

// IntakeRejectedEvent records a request refused before anything was stored.
type IntakeRejectedEvent struct {
	RequestID string
	ClientIP  string
	Reason    string
}

func (e IntakeRejectedEvent) MessageID() string {
	return "intake-rejected"
}

func (e IntakeRejectedEvent) Message() string {
	return "rejected intake request: " + e.Reason
}

func (e IntakeRejectedEvent) Severity() Severity {
	return SeverityNotice
}

func (e IntakeRejectedEvent) Facility() int {
	return FacilityUser
}

func (e IntakeRejectedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDIntake: {
			"request": e.RequestID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "extract",
			"result":    "failure",
		},
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
