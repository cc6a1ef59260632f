package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

const driverName = "sqlite"

const insertRecordSQL = `INSERT INTO person_data (numele, prenumele, data_nasterii, adresa, cnp) VALUES (?, ?, ?, ?, ?)`

// Ensure RecordStore implements the store interfaces
var (
	_ store.RecordStore = (*RecordStore)(nil)
	_ store.HealthStore = (*RecordStore)(nil)
)

// Opener returns a fresh database handle. The store closes it after use.
type Opener func() (*sql.DB, error)

// RecordStore implements store.RecordStore on a sqlite file
type RecordStore struct {
	open Opener
}

// NewRecordStore creates a RecordStore backed by the sqlite file at path
func NewRecordStore(path string) *RecordStore {
	dsn := DSN(path)
	return NewRecordStoreWithOpener(func() (*sql.DB, error) {
		return sql.Open(driverName, dsn)
	})
}

// NewRecordStoreWithOpener creates a RecordStore using a custom opener
func NewRecordStoreWithOpener(open Opener) *RecordStore {
	return &RecordStore{open: open}
}

// DSN returns the driver connection string for a sqlite file.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// EnsureSchema creates person_data if it does not exist
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	return s.withConn("ensure schema", func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, store.SQLiteSchema)
		return err
	})
}

// Insert appends rec and returns its new id
func (s *RecordStore) Insert(ctx context.Context, rec *model.Record) (int64, error) {
	var id int64
	err := s.withConn("insert", func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, insertRecordSQL,
			rec.Name, rec.GivenName, rec.BirthDate, rec.Address, rec.NationalID)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

// CheckConnectivity verifies database connectivity
func (s *RecordStore) CheckConnectivity(ctx context.Context) error {
	return s.withConn("health check", func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, "SELECT 1")
		return err
	})
}

func (s *RecordStore) withConn(op string, fn func(db *sql.DB) error) error {
	db, err := s.open()
	if err != nil {
		return &store.PersistenceError{Op: op, Err: err}
	}
	defer db.Close()

	// One connection per call, so pragmas and the statement share it.
	db.SetMaxOpenConns(1)

	if err := fn(db); err != nil {
		return &store.PersistenceError{Op: op, Err: err}
	}
	return nil
}
