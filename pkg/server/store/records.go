package store

import (
	"context"
	"fmt"

	"github.com/doodlesbykumbi/identity-intake/pkg/model"
)

// Schema for the record table, per dialect.
const (
	SQLiteSchema = `CREATE TABLE IF NOT EXISTS person_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	numele TEXT,
	prenumele TEXT,
	data_nasterii TEXT,
	adresa TEXT,
	cnp TEXT
)`

	PostgresSchema = `CREATE TABLE IF NOT EXISTS person_data (
	id BIGSERIAL PRIMARY KEY,
	numele TEXT,
	prenumele TEXT,
	data_nasterii TEXT,
	adresa TEXT,
	cnp TEXT
)`
)

// PersistenceError is returned when the record store is unavailable or a
// write fails.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RecordStore abstracts the append-only person_data table.
// Every call acquires and releases its own connection.
type RecordStore interface {
	// EnsureSchema creates the table if it does not exist. It never drops
	// or alters existing data and is safe to call on every start.
	EnsureSchema(ctx context.Context) error

	// Insert appends rec and returns the id assigned by the store. The id is
	// also written to rec.ID. Failures are reported as *PersistenceError.
	Insert(ctx context.Context, rec *model.Record) (int64, error)
}
