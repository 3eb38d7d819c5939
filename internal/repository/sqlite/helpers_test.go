package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recall/internal/db"
	"github.com/vytor/recall/internal/repository"
	"github.com/vytor/recall/internal/repository/sqlite"
	"github.com/vytor/recall/internal/testutil"
)

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"wrapped busy", fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlite.IsBusy(tt.err))
		})
	}
}

func TestWithRetry_PermanentErrorIsNotRetried(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	var attempts int
	boom := errors.New("boom")
	err := sqlite.WithRetry(context.Background(), sqlDB, sqlite.DefaultRetryPolicy(), func(tx *sql.Tx) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_RollsBackFailedAttempt(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	err := sqlite.WithRetry(context.Background(), sqlDB, sqlite.DefaultRetryPolicy(), func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO learners (username) VALUES ('ghost')`); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM learners`).Scan(&n))
	assert.Equal(t, 0, n)
}

// holdWriteLock takes the reserved lock on a dedicated connection and
// returns a func that releases it.
func holdWriteLock(t *testing.T, conn *db.DB) func() {
	t.Helper()
	ctx := context.Background()
	c, err := conn.Conn(ctx)
	require.NoError(t, err)
	_, err = c.ExecContext(ctx, `BEGIN IMMEDIATE`)
	require.NoError(t, err)

	var released atomic.Bool
	return func() {
		if released.Swap(true) {
			return
		}
		_, _ = c.ExecContext(ctx, `COMMIT`)
		_ = c.Close()
	}
}

func TestWithRetry_SucceedsOnceLockIsReleased(t *testing.T) {
	holder, path := testutil.NewFileDB(t)
	writer, err := db.Open(path, db.WithBusyTimeout(0))
	require.NoError(t, err)
	defer testutil.MustClose(t, writer)

	release := holdWriteLock(t, holder)
	defer release()
	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	policy := sqlite.RetryPolicy{MaxAttempts: 50, InitialInterval: 20 * time.Millisecond, MaxInterval: 50 * time.Millisecond}
	var attempts int
	err = sqlite.WithRetry(context.Background(), writer.DB, policy, func(tx *sql.Tx) error {
		attempts++
		_, err := tx.Exec(`INSERT INTO learners (username) VALUES ('contended')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "the body only runs once BEGIN succeeds")

	var n int
	require.NoError(t, writer.QueryRow(`SELECT COUNT(*) FROM learners WHERE username = 'contended'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWithRetry_GivesUpWhileLockIsHeld(t *testing.T) {
	holder, path := testutil.NewFileDB(t)
	writer, err := db.Open(path, db.WithBusyTimeout(0))
	require.NoError(t, err)
	defer testutil.MustClose(t, writer)

	release := holdWriteLock(t, holder)
	defer release()

	policy := sqlite.RetryPolicy{MaxAttempts: 3, InitialInterval: 5 * time.Millisecond, MaxInterval: 10 * time.Millisecond}
	var calls int
	err = sqlite.WithRetry(context.Background(), writer.DB, policy, func(tx *sql.Tx) error {
		calls++
		return nil
	})
	require.Error(t, err)
	assert.True(t, sqlite.IsBusy(err), "expected busy error, got %v", err)
	assert.ErrorIs(t, err, repository.ErrBusy)
	assert.Equal(t, 0, calls, "the transaction body never runs while BEGIN is refused")
}
