// Package audit provides audit logging for intake operations.
//
// Events are written as RFC5424 syslog lines with structured data, one per
// line, to stderr by default.
//
// # Event Types
//
//   - record-stored: a record was persisted, or persisting it failed
//   - notification: the email relay outcome for a stored record
//   - intake-rejected: a request was refused before reaching the store
//
// # Usage
//
//	logger := audit.NewLogger()
//	logger.Log(audit.RecordStoredEvent{RequestID: id, RecordID: 7, Success: true})
//
// Events identify records by id only. Identity field values are never
// written to the audit stream.
package audit
