package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recall/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same
// in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on&_txlock=immediate")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// NewFileDB opens a migrated database file in a per-test temp dir. Use it
// when a test needs two handles contending for the same file.
func NewFileDB(t *testing.T, opts ...db.Option) (*db.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recall.db")
	conn, err := db.Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, path
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedLearner inserts a learner with the given chapter count and returns its id.
func SeedLearner(t *testing.T, sqlDB *sql.DB, username string, chapters int) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO learners (username, chapters_completed) VALUES (?, ?)`, username, chapters)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
