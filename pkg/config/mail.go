package config

import "time"

// Mail is the outbound notification configuration. It is built once at
// startup and handed to the notifier.
type Mail struct {
	User     string
	Password Secret
	To       string
	Host     string
	Port     int
	Timeout  time.Duration
}

// Configured reports whether sender, credential and recipient are all set.
func (m Mail) Configured() bool {
	return len(m.Missing()) == 0
}

// Missing returns the names of the unset credential attributes.
func (m Mail) Missing() []string {
	var missing []string
	if m.User == "" {
		missing = append(missing, "mail_user")
	}
	if !m.Password.IsSet() {
		missing = append(missing, "mail_password")
	}
	if m.To == "" {
		missing = append(missing, "mail_to")
	}
	return missing
}
