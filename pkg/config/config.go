package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/intake"
	ConfigFileName    = "intake.yml"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	sourceDefault     = "default"
	sourceFile        = "file"
	sourceEnvironment = "environment"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// IntakeConfig holds all intake service settings
type IntakeConfig struct {
	// BindAddress is the interface the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP listen port
	Port string `yaml:"port" json:"port"`

	// DatabaseDriver selects the record store backend (sqlite or postgres)
	DatabaseDriver string `yaml:"database_driver" json:"database_driver"`

	// DatabasePath is the sqlite database file
	DatabasePath string `yaml:"database_path" json:"database_path"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL Secret `yaml:"database_url" json:"database_url"`

	// MailUser is the sender identity used to authenticate with the relay
	MailUser string `yaml:"mail_user" json:"mail_user"`

	// MailPassword is the sender credential
	MailPassword Secret `yaml:"mail_password" json:"mail_password"`

	// MailTo is the notification recipient
	MailTo string `yaml:"mail_to" json:"mail_to"`

	// MailHost and MailPort address the SMTPS relay
	MailHost string `yaml:"mail_host" json:"mail_host"`
	MailPort int    `yaml:"mail_port" json:"mail_port"`

	// MailTimeout bounds one relay session
	MailTimeout time.Duration `yaml:"mail_timeout" json:"mail_timeout"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// CORSAllowedOrigins lists the origins allowed by the CORS handler
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// AuditEnabled turns the RFC5424 audit stream on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors IntakeConfig with pointer fields so that values
// explicitly set in the file can be told apart from zero values.
type fileConfig struct {
	BindAddress        *string  `yaml:"bind_address"`
	Port               *string  `yaml:"port"`
	DatabaseDriver     *string  `yaml:"database_driver"`
	DatabasePath       *string  `yaml:"database_path"`
	DatabaseURL        *Secret  `yaml:"database_url"`
	MailUser           *string  `yaml:"mail_user"`
	MailPassword       *Secret  `yaml:"mail_password"`
	MailTo             *string  `yaml:"mail_to"`
	MailHost           *string  `yaml:"mail_host"`
	MailPort           *int     `yaml:"mail_port"`
	MailTimeout        *string  `yaml:"mail_timeout"`
	LogLevel           *string  `yaml:"log_level"`
	LogFormat          *string  `yaml:"log_format"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	AuditEnabled       *bool    `yaml:"audit_enabled"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *IntakeConfig {
	return &IntakeConfig{
		BindAddress:        "0.0.0.0",
		Port:               "8080",
		DatabaseDriver:     DriverSQLite,
		DatabasePath:       "data.db",
		MailHost:           "smtp.gmail.com",
		MailPort:           465,
		MailTimeout:        30 * time.Second,
		LogLevel:           "info",
		LogFormat:          "json",
		CORSAllowedOrigins: []string{"*"},
		AuditEnabled:       true,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*IntakeConfig, error) {
	configPath := os.Getenv("INTAKE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return LoadFrom(configPath)
}

// LoadFrom is Load with the config file read from dir.
func LoadFrom(dir string) (*IntakeConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = sourceDefault
	}

	config.configFilePath = filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(config.configFilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file; defaults and environment only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", config.configFilePath, err)
	default:
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		if err := config.applyFileConfig(&file); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", config.configFilePath, err)
		}
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port",
		"database_driver", "database_path", "database_url",
		"mail_user", "mail_password", "mail_to",
		"mail_host", "mail_port", "mail_timeout",
		"log_level", "log_format",
		"cors_allowed_origins", "audit_enabled",
	}
}

func (c *IntakeConfig) applyFileConfig(file *fileConfig) error {
	setString := func(name string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			c.sources[name] = sourceFile
		}
	}
	setSecret := func(name string, dst *Secret, src *Secret) {
		if src != nil {
			*dst = *src
			c.sources[name] = sourceFile
		}
	}

	setString("bind_address", &c.BindAddress, file.BindAddress)
	setString("port", &c.Port, file.Port)
	setString("database_driver", &c.DatabaseDriver, file.DatabaseDriver)
	setString("database_path", &c.DatabasePath, file.DatabasePath)
	setSecret("database_url", &c.DatabaseURL, file.DatabaseURL)
	setString("mail_user", &c.MailUser, file.MailUser)
	setSecret("mail_password", &c.MailPassword, file.MailPassword)
	setString("mail_to", &c.MailTo, file.MailTo)
	setString("mail_host", &c.MailHost, file.MailHost)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)

	if file.MailPort != nil {
		c.MailPort = *file.MailPort
		c.sources["mail_port"] = sourceFile
	}
	if file.MailTimeout != nil {
		d, err := time.ParseDuration(*file.MailTimeout)
		if err != nil {
			return fmt.Errorf("mail_timeout: %w", err)
		}
		c.MailTimeout = d
		c.sources["mail_timeout"] = sourceFile
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = sourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = sourceFile
	}
	return nil
}

func (c *IntakeConfig) applyEnvConfig() error {
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = sourceEnvironment
	}
	if val := os.Getenv("PORT"); val != "" {
		c.Port = val
		c.sources["port"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_DATABASE_DRIVER"); val != "" {
		c.DatabaseDriver = val
		c.sources["database_driver"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
		c.sources["database_path"] = sourceEnvironment
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = Secret(val)
		c.sources["database_url"] = sourceEnvironment
	}
	if val := os.Getenv("EMAIL_USER"); val != "" {
		c.MailUser = val
		c.sources["mail_user"] = sourceEnvironment
	}
	if val := os.Getenv("EMAIL_PASS"); val != "" {
		c.MailPassword = Secret(val)
		c.sources["mail_password"] = sourceEnvironment
	}
	if val := os.Getenv("TO_EMAIL"); val != "" {
		c.MailTo = val
		c.sources["mail_to"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_MAIL_HOST"); val != "" {
		c.MailHost = val
		c.sources["mail_host"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_MAIL_PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("INTAKE_MAIL_PORT: %w", err)
		}
		c.MailPort = i
		c.sources["mail_port"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_MAIL_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("INTAKE_MAIL_TIMEOUT: %w", err)
		}
		c.MailTimeout = d
		c.sources["mail_timeout"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_LOG_FORMAT"); val != "" {
		c.LogFormat = strings.ToLower(val)
		c.sources["log_format"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = sourceEnvironment
	}
	if val := os.Getenv("INTAKE_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = sourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *IntakeConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *IntakeConfig) Source(name string) string {
	if c.sources == nil {
		return sourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return sourceDefault
}

// Mail returns the notification settings as a value object.
func (c *IntakeConfig) Mail() Mail {
	return Mail{
		User:     c.MailUser,
		Password: c.MailPassword,
		To:       c.MailTo,
		Host:     c.MailHost,
		Port:     c.MailPort,
		Timeout:  c.MailTimeout,
	}
}

// Validate validates the configuration
func (c *IntakeConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("database_path is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if !c.DatabaseURL.IsSet() {
			return fmt.Errorf("database_url is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("invalid database_driver: %s", c.DatabaseDriver)
	}

	if c.MailPort <= 0 || c.MailPort > 65535 {
		return fmt.Errorf("invalid mail_port: %d", c.MailPort)
	}
	if c.MailTimeout <= 0 {
		return fmt.Errorf("invalid mail_timeout: %s", c.MailTimeout)
	}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// Secrets are rendered redacted.
func (c *IntakeConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "database_driver", Value: c.DatabaseDriver, Source: c.Source("database_driver")},
		{Name: "database_path", Value: c.DatabasePath, Source: c.Source("database_path")},
		{Name: "database_url", Value: c.DatabaseURL.String(), Source: c.Source("database_url")},
		{Name: "mail_user", Value: c.MailUser, Source: c.Source("mail_user")},
		{Name: "mail_password", Value: c.MailPassword.String(), Source: c.Source("mail_password")},
		{Name: "mail_to", Value: c.MailTo, Source: c.Source("mail_to")},
		{Name: "mail_host", Value: c.MailHost, Source: c.Source("mail_host")},
		{Name: "mail_port", Value: strconv.Itoa(c.MailPort), Source: c.Source("mail_port")},
		{Name: "mail_timeout", Value: c.MailTimeout.String(), Source: c.Source("mail_timeout")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *IntakeConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *IntakeConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
