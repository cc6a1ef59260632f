package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Secret wraps strings that must not appear in logs or rendered output.
// Use Value() to read the raw value.
type Secret string

// String always returns a redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the raw secret.
func (s Secret) Value() string {
	return string(s)
}

// IsSet reports whether the secret is non-empty.
func (s Secret) IsSet() bool {
	return s != ""
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s Secret) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts the raw secret from a config file.
func (s *Secret) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = Secret(raw)
	return nil
}
