package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
)

func sampleRecord() model.Record {
	return model.Record{
		Name:       "Popescu",
		GivenName:  "Ion",
		BirthDate:  "1990-01-01",
		Address:    "Str. X",
		NationalID: "1234567890123",
	}
}

func newTestStore(t *testing.T) (*RecordStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	s := NewRecordStore(path)
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s, path
}

func readRecords(t *testing.T, path string) []model.Record {
	t.Helper()
	db, err := sql.Open(driverName, DSN(path))
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT id, numele, prenumele, data_nasterii, adresa, cnp FROM person_data ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		require.NoError(t, rows.Scan(&r.ID, &r.Name, &r.GivenName, &r.BirthDate, &r.Address, &r.NationalID))
		records = append(records, r)
	}
	require.NoError(t, rows.Err())
	return records
}

func TestRecordStore_InsertPersistsRecord(t *testing.T) {
	s, path := newTestStore(t)

	rec := sampleRecord()
	id, err := s.Insert(context.Background(), &rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, id, rec.ID)

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestRecordStore_IDsIncrease(t *testing.T) {
	s, _ := newTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		rec := sampleRecord()
		id, err := s.Insert(context.Background(), &rec)
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestRecordStore_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	s, path := newTestStore(t)

	const writers = 8
	ids := make(chan int64, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := sampleRecord()
			id, err := s.Insert(context.Background(), &rec)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, readRecords(t, path), writers)
}

func TestRecordStore_EnsureSchemaKeepsData(t *testing.T) {
	s, path := newTestStore(t)

	rec := sampleRecord()
	_, err := s.Insert(context.Background(), &rec)
	require.NoError(t, err)

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.EnsureSchema(context.Background()))

	assert.Len(t, readRecords(t, path), 1)
}

func TestRecordStore_CheckConnectivity(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.CheckConnectivity(context.Background()))
}

func TestRecordStore_UnwritableLocation(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "missing", "dir", "data.db"))

	rec := sampleRecord()
	_, err := s.Insert(context.Background(), &rec)
	require.Error(t, err)

	var perr *store.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "insert", perr.Op)
	assert.Zero(t, rec.ID)
}

func TestRecordStore_OpenFailure(t *testing.T) {
	openErr := errors.New("cannot open")
	s := NewRecordStoreWithOpener(func() (*sql.DB, error) { return nil, openErr })

	err := s.EnsureSchema(context.Background())
	require.Error(t, err)

	var perr *store.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "ensure schema", perr.Op)
	assert.True(t, errors.Is(err, openErr))
}

func TestRecordStore_InsertWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := NewRecordStoreWithOpener(func() (*sql.DB, error) { return db, nil })

	rec := sampleRecord()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person_data")).
		WithArgs("Popescu", "Ion", "1990-01-01", "Str. X", "1234567890123").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectClose()

	id, err := s.Insert(context.Background(), &rec)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_InsertWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := NewRecordStoreWithOpener(func() (*sql.DB, error) { return db, nil })

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person_data")).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectClose()

	rec := sampleRecord()
	_, err = s.Insert(context.Background(), &rec)
	require.Error(t, err)

	var perr *store.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
