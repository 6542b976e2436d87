package data

import (
	"context"
	"fmt"
	"go-cms-app/internal/config"
	"io/fs"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// NewDB creates a new database connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		// sqlx.Connect opens a connection and pings it to verify it's alive.
		db, err := sqlx.Connect(DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// A single connection serialises writers and keeps in-memory databases alive.
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverMySQL:
		dsn, err := normalizeMySQLDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		db, err := sqlx.Connect(DriverMySQL, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// normalizeMySQLDSN enables the connection options the repositories rely on:
// time.Time scanning, multi-statement migration files, and matched (not
// changed) row counts for UPDATE.
func normalizeMySQLDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.MultiStatements = true
	mc.ClientFoundRows = true
	return mc.FormatDSN(), nil
}

// ApplyMigrations runs all up migrations for the given driver against db.
func ApplyMigrations(db *sqlx.DB, driverName string, migrationsFS fs.FS) error {
	if driverName == "" {
		driverName = DriverSQLite
	}

	var (
		dbDriver database.Driver
		err      error
	)
	switch driverName {
	case DriverSQLite:
		dbDriver, err = migratesqlite3.WithInstance(db.DB, &migratesqlite3.Config{})
	case DriverMySQL:
		dbDriver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driverName)
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate database driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, driverName)
	if err != nil {
		return fmt.Errorf("failed to open migrations for %s: %w", driverName, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Up applies all available up migrations. m.Close is not called because it
	// would close the shared connection pool.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
