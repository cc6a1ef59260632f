package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store"
	"github.com/doodlesbykumbi/identity-intake/pkg/server/store/sqlite"
)

// TestContext holds the resources shared by every scenario.
type TestContext struct {
	// Driver is the record store backend under test (sqlite or postgres)
	Driver string

	// DatabaseURL is set for postgres; each sqlite scenario gets its own file
	DatabaseURL string
	Container   testcontainers.Container

	// BinaryPath runs scenarios against a built intakectl instead of in-process
	BinaryPath string
	InlineMode bool

	tempDir string
}

// NewTestContext prepares the database backend for the suite.
// Modes:
//   - Inline mode (default): the server runs in-process
//   - Binary mode: set INTAKE_BINARY to the path of the intakectl binary
//
// Set INTAKE_TEST_DRIVER=postgres to run against a PostgreSQL testcontainer.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "intake-integration-")
	if err != nil {
		return nil, err
	}

	tc := &TestContext{
		Driver:     config.DriverSQLite,
		BinaryPath: os.Getenv("INTAKE_BINARY"),
		tempDir:    tempDir,
	}
	tc.InlineMode = tc.BinaryPath == ""

	if !tc.InlineMode {
		if _, err := os.Stat(tc.BinaryPath); err != nil {
			tc.Close(ctx)
			return nil, fmt.Errorf("INTAKE_BINARY path does not exist: %s", tc.BinaryPath)
		}
		log.Printf("Using binary: %s", tc.BinaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	if os.Getenv("INTAKE_TEST_DRIVER") == config.DriverPostgres {
		tc.Driver = config.DriverPostgres
		if err := tc.startPostgres(ctx); err != nil {
			tc.Close(ctx)
			return nil, err
		}
	}

	return tc, nil
}

func (tc *TestContext) startPostgres(ctx context.Context) error {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("intake_test"),
		tcpostgres.WithUsername("intake"),
		tcpostgres.WithPassword("intake"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.Container = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get connection string: %w", err)
	}
	tc.DatabaseURL = connStr

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, store.PostgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// NewDatabasePath returns a fresh sqlite file path for one scenario.
func (tc *TestContext) NewDatabasePath() (string, error) {
	dir, err := os.MkdirTemp(tc.tempDir, "scenario-")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data.db"), nil
}

// Reset recreates and empties the shared postgres table between scenarios.
func (tc *TestContext) Reset(ctx context.Context) error {
	if tc.Driver != config.DriverPostgres {
		return nil
	}
	db, err := sql.Open("postgres", tc.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, store.PostgresSchema); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "TRUNCATE person_data RESTART IDENTITY")
	return err
}

// Records reads back every stored record in id order.
func (tc *TestContext) Records(ctx context.Context, sqlitePath string) ([]model.Record, error) {
	var (
		db  *sql.DB
		err error
	)
	if tc.Driver == config.DriverPostgres {
		db, err = sql.Open("postgres", tc.DatabaseURL)
	} else {
		db, err = sql.Open("sqlite", sqlite.DSN(sqlitePath))
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT id, numele, prenumele, data_nasterii, adresa, cnp FROM person_data ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.GivenName, &r.BirthDate, &r.Address, &r.NationalID); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
	if tc.tempDir != "" {
		_ = os.RemoveAll(tc.tempDir)
	}
}
