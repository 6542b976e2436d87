//go:build integration

package data

import (
	"go-cms-app/internal/config"
	"go-cms-app/migrations"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a migrated in-memory SQLite database that lives for the
// duration of the test.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(config.DBConfig{Driver: DriverSQLite, DSN: "file::memory:?_foreign_keys=on"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, ApplyMigrations(db, DriverSQLite, migrations.FS))
	return db
}
