package test_utils

import (
	"database/sql"
	"testing"

	"github.com/trackboard/trackboard/internal/database"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates a new in-memory SQLite database with all migrations
// applied. Each database is completely isolated from others.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	// database.Migrate discovers the migrations directory by walking up
	// from the package directory the test runs in.
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return db
}
