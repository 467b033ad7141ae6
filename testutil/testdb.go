// ABOUTME: Test database helpers
// ABOUTME: Opens an in-memory SQLite database with the schema applied and closes it on cleanup
package testutil

import (
	"testing"

	"github.com/harperreed/voss/db"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}
