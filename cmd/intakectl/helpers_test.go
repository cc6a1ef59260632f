package main

import (
	"path/filepath"
	"testing"
)

const sampleText = "CARTE DE IDENTITATE\nNumele: Popescu\nPrenumele: Ion\nData nașterii: 01.01.1990\nAdresa: Str. Lunga nr. 1, Cluj\nCNP: 1900101123456\n"

// isolateConfig points configuration at an empty directory and clears the
// environment so tests see defaults plus whatever they set.
func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("INTAKE_CONFIG_PATH", dir)
	for _, name := range []string{
		"BIND_ADDRESS", "PORT", "INTAKE_DATABASE_DRIVER", "DATABASE_URL",
		"EMAIL_USER", "EMAIL_PASS", "TO_EMAIL", "INTAKE_MAIL_HOST", "INTAKE_MAIL_PORT",
		"INTAKE_MAIL_TIMEOUT", "INTAKE_LOG_LEVEL", "INTAKE_LOG_FORMAT",
		"INTAKE_CORS_ALLOWED_ORIGINS", "INTAKE_AUDIT_ENABLED",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("INTAKE_DATABASE_PATH", filepath.Join(dir, "data.db"))
	return dir
}
