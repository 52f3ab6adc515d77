package testing

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/musetronstar/tagd/db"
)

// CreateTestDB creates a migrated in-memory SQLite test database with the
// hard tags seeded. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(db.MemoryPath, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err, "Failed to create test database")

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
