package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "000", migrationVersion("000_create_schema_migrations.sql"))
	assert.Equal(t, "001", migrationVersion("001_create_descriptor_fields.sql"))
}

func TestOpenWithMigrations(t *testing.T) {
	t.Run("creates the descriptor schema", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Open(dbPath, zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		defer db.Close()

		n, err := Migrate(db, zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		for _, table := range []string{"schema_migrations", "descriptor_fields"} {
			var count int
			err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count, "table %s should exist after migrations", table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		n, err := Migrate(db, nil)
		require.NoError(t, err)
		assert.Zero(t, n, "nothing left to apply")

		var applied int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
		assert.Equal(t, 2, applied)
		db.Close()
	})
}
