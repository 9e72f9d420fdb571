package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the material-request schema
// applied, closed automatically when the test finishes. Each call gets its
// own empty database, so tests never share tenants or requests.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("applying schema to test database: %v", err)
	}

	return database
}
