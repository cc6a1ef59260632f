package audit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// SDID constants for structured data IDs (RFC5424)
// 32473 is the documentation Private Enterprise Number from RFC5612.
const (
	IntakePEN  = 32473
	SDIDIntake = "intake@32473"
	SDIDClient = "client@32473"
	SDIDAction = "action@32473"
)

// Syslog facility constants
const (
	FacilityUser     = 1  // LOG_USER - user-level messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	hostname string
	appName  string
	pid      int
}

// NewLogger creates a new audit logger writing to stderr
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stderr,
		enabled:  true,
		hostname: hostname,
		appName:  "intake",
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetEnabled turns audit output on or off
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// Log writes an audit event in RFC5424 syslog format.
// A nil or disabled logger drops the event.
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}

	// Calculate PRI value: facility * 8 + severity
	pri := event.Facility()*8 + int(event.Severity())

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	logLine := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}
	_, _ = l.writer.Write([]byte(logLine))
}

// formatStructuredData formats the structured data according to RFC5424
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
// Elements and params are sorted so output is stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	var parts []string
	for _, sdid := range sortedKeys(sd) {
		params := sd[sdid]
		paramParts := []string{sdid}
		for _, key := range sortedKeys(params) {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
