// Package config provides configuration management for the intake service.
//
// Configuration is layered: built-in defaults, then the YAML file
// intake.yml, then environment variables. Every attribute remembers which
// layer set it so that "intakectl configuration show" can report it.
//
// # Configuration Sources
//
//   - INTAKE_CONFIG_PATH: directory holding intake.yml (default /etc/intake)
//   - Environment variables (highest precedence)
//
// # Key Configuration Options
//
//   - EMAIL_USER, EMAIL_PASS, TO_EMAIL: notification sender, credential and recipient
//   - INTAKE_MAIL_HOST, INTAKE_MAIL_PORT: SMTPS relay (default smtp.gmail.com:465)
//   - INTAKE_DATABASE_DRIVER: sqlite (default) or postgres
//   - INTAKE_DATABASE_PATH: sqlite file (default data.db)
//   - DATABASE_URL: PostgreSQL connection string
//   - INTAKE_LOG_LEVEL, INTAKE_LOG_FORMAT: logging verbosity and encoding
//   - PORT, BIND_ADDRESS: server listen address
//
// Secrets (the mail password and database URL) are held as Secret values and
// are never rendered in plain text.
package config
