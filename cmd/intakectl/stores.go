package main

import (
	"fmt"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/identity-intake/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store/sqlite"
)

// recordBackend is what the server needs from a store implementation.
type recordBackend interface {
	store.RecordStore
	store.HealthStore
}

func newRecordBackend(cfg *config.IntakeConfig) (recordBackend, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		return sqlite.NewRecordStore(cfg.DatabasePath), nil
	case config.DriverPostgres:
		return gormstore.NewPostgresRecordStore(cfg.DatabaseURL.Value(), cfg.LogLevel == "debug"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
