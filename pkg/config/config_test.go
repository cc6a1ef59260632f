package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	t.Setenv("INTAKE_CONFIG_PATH", dir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("INTAKE_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "data.db", cfg.DatabasePath)
	assert.Equal(t, "smtp.gmail.com", cfg.MailHost)
	assert.Equal(t, 465, cfg.MailPort)
	assert.Equal(t, 30*time.Second, cfg.MailTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "default", cfg.Source("port"))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	writeConfigFile(t, `
port: 9090
database_path: /var/lib/intake/records.db
mail_user: sender@example.com
mail_password: s3cret
mail_timeout: 5s
audit_enabled: false
cors_allowed_origins:
  - https://intake.example.com
`)
	t.Setenv("EMAIL_USER", "override@example.com")
	t.Setenv("TO_EMAIL", "inbox@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, "/var/lib/intake/records.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.MailTimeout)
	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, "file", cfg.Source("audit_enabled"))
	assert.Equal(t, []string{"https://intake.example.com"}, cfg.CORSAllowedOrigins)

	assert.Equal(t, "override@example.com", cfg.MailUser)
	assert.Equal(t, "environment", cfg.Source("mail_user"))
	assert.Equal(t, "s3cret", cfg.MailPassword.Value())
	assert.Equal(t, "file", cfg.Source("mail_password"))
	assert.Equal(t, "inbox@example.com", cfg.MailTo)

	mail := cfg.Mail()
	assert.True(t, mail.Configured())
	assert.Equal(t, "smtp.gmail.com", mail.Host)
}

func TestLoad_InvalidFile(t *testing.T) {
	writeConfigFile(t, "port: [not, a, port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of the file fails to read for any user, root included.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFileName), 0o700))
	t.Setenv("INTAKE_CONFIG_PATH", dir)

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read config file")
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, sourceDefault, cfg.sources["mail_timeout"])
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("INTAKE_CONFIG_PATH", t.TempDir())
	t.Setenv("INTAKE_MAIL_PORT", "smtps")

	_, err := Load()
	assert.ErrorContains(t, err, "INTAKE_MAIL_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *IntakeConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *IntakeConfig) {}},
		{name: "non numeric port", mutate: func(c *IntakeConfig) { c.Port = "http" }, wantErr: "invalid port"},
		{name: "unknown driver", mutate: func(c *IntakeConfig) { c.DatabaseDriver = "mysql" }, wantErr: "invalid database_driver"},
		{name: "postgres without url", mutate: func(c *IntakeConfig) { c.DatabaseDriver = DriverPostgres }, wantErr: "database_url is required"},
		{
			name: "postgres with url",
			mutate: func(c *IntakeConfig) {
				c.DatabaseDriver = DriverPostgres
				c.DatabaseURL = "postgres://intake@localhost/intake"
			},
		},
		{name: "mail port out of range", mutate: func(c *IntakeConfig) { c.MailPort = 70000 }, wantErr: "invalid mail_port"},
		{name: "zero timeout", mutate: func(c *IntakeConfig) { c.MailTimeout = 0 }, wantErr: "invalid mail_timeout"},
		{name: "unknown log level", mutate: func(c *IntakeConfig) { c.LogLevel = "trace" }, wantErr: "invalid log_level"},
		{name: "unknown log format", mutate: func(c *IntakeConfig) { c.LogFormat = "xml" }, wantErr: "invalid log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFormat_RedactsSecrets(t *testing.T) {
	cfg := newDefault()
	cfg.MailPassword = "hunter2"
	cfg.DatabaseURL = "postgres://intake:hunter2@db/intake"

	text := cfg.FormatText()
	assert.NotContains(t, text, "hunter2")
	assert.Contains(t, text, "[REDACTED]")

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed["attributes"], len(attributeNames()))
}

func TestSecret(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "hunter2", s.Value())
	assert.Equal(t, "", Secret("").String())
}

func TestMail_Missing(t *testing.T) {
	m := Mail{User: "sender@example.com"}
	assert.False(t, m.Configured())
	assert.Equal(t, []string{"mail_password", "mail_to"}, m.Missing())
}
