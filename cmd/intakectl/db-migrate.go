package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/identity-intake/db"
	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	pkgdb "github.com/doodlesbykumbi/identity-intake/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending migrations for the configured database
driver. Migrations are embedded from db/migrations/<driver>. They only add
schema; there is no rollback because person_data records are never removed
by this tool.

Example:
  intakectl db migrate
  INTAKE_DATABASE_DRIVER=postgres DATABASE_URL=postgres://... intakectl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadValidConfig()
		if err := runMigrations(cfg, cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, "Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadValidConfig()
		if err := showMigrationStatus(cfg, cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func loadValidConfig() *config.IntakeConfig {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func migrationTarget(cfg *config.IntakeConfig) string {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return cfg.DatabaseURL.Value()
	}
	return cfg.DatabasePath
}

func createMigrateInstance(cfg *config.IntakeConfig) (*migrate.Migrate, error) {
	dbURL, err := pkgdb.MigrationURL(cfg.DatabaseDriver, migrationTarget(cfg))
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(db.Migrations, "migrations/"+cfg.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}

func runMigrations(cfg *config.IntakeConfig, out io.Writer) error {
	m, err := createMigrateInstance(cfg)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Fprintln(out, "No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, _ := m.Version()
	fmt.Fprintf(out, "Migrated to version: %d\n", version)
	return nil
}

func showMigrationStatus(cfg *config.IntakeConfig, out io.Writer) error {
	m, err := createMigrateInstance(cfg)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "No migrations applied")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current version: %d (dirty: %v)\n", version, dirty)
	return nil
}
