package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/teranos/parigen/db"
)

// CreateTestDB creates a migrated SQLite descriptor database in a temporary
// directory. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "parigen-test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
