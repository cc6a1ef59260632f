package db

import (
	"fmt"
	"net/url"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// URL is the PostgreSQL connection URL
	URL string
	// Debug enables GORM SQL logging
	Debug bool
}

// Connect establishes a PostgreSQL connection through GORM.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Close releases the connection pool behind a GORM handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MigrationURL returns the golang-migrate database URL for a driver.
// For sqlite target is the database file, for postgres the connection URL.
func MigrationURL(driver, target string) (string, error) {
	switch driver {
	case "sqlite":
		if target == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		return "sqlite://" + target, nil
	case "postgres":
		u, err := url.Parse(target)
		if err != nil || u.Scheme == "" {
			return "", fmt.Errorf("invalid postgres URL")
		}
		if !strings.HasPrefix(u.Scheme, "postgres") {
			return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
		}
		return target, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
