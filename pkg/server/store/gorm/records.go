package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/identity-intake/pkg/db"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

// Ensure RecordStore implements the store interfaces
var (
	_ store.RecordStore = (*RecordStore)(nil)
	_ store.HealthStore = (*RecordStore)(nil)
)

// Opener returns a fresh GORM handle. The store closes it after use.
type Opener func() (*gorm.DB, error)

// RecordStore implements store.RecordStore using GORM
type RecordStore struct {
	open Opener
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(open Opener) *RecordStore {
	return &RecordStore{open: open}
}

// NewPostgresRecordStore creates a RecordStore connecting to url on every call
func NewPostgresRecordStore(url string, debug bool) *RecordStore {
	return NewRecordStore(func() (*gorm.DB, error) {
		return db.Connect(db.Config{URL: url, Debug: debug})
	})
}

// EnsureSchema creates person_data if it does not exist
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	return s.withConn("ensure schema", func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Exec(store.PostgresSchema).Error
	})
}

// Insert appends rec and returns its new id
func (s *RecordStore) Insert(ctx context.Context, rec *model.Record) (int64, error) {
	row := *rec
	row.ID = 0
	err := s.withConn("insert", func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(&row).Error
	})
	if err != nil {
		return 0, err
	}
	rec.ID = row.ID
	return row.ID, nil
}

// CheckConnectivity verifies database connectivity
func (s *RecordStore) CheckConnectivity(ctx context.Context) error {
	return s.withConn("health check", func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Exec("SELECT 1").Error
	})
}

func (s *RecordStore) withConn(op string, fn func(tx *gorm.DB) error) error {
	conn, err := s.open()
	if err != nil {
		return &store.PersistenceError{Op: op, Err: err}
	}
	defer db.Close(conn)

	if err := fn(conn); err != nil {
		return &store.PersistenceError{Op: op, Err: err}
	}
	return nil
}
