package testutil

import (
	"testing"

	"mediasort/internal/database"
)

// NewTestManifest creates an in-memory SQLite trash manifest with the schema
// applied. It is closed automatically when the test completes.
func NewTestManifest(t *testing.T) *database.SQLiteManifest {
	t.Helper()

	m, err := database.NewSQLiteManifest(":memory:")
	if err != nil {
		t.Fatalf("failed to open manifest: %v", err)
	}
	t.Cleanup(func() {
		m.Close()
	})
	return m
}
