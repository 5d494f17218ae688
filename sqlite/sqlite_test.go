package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pagemeta/sqlite"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		// Verify tables exist by querying them
		ctx := context.Background()

		var count int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}

func TestDB_InTx(t *testing.T) {
	t.Parallel()

	t.Run("rolls back when fn fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		err := db.InTx(ctx, func(tx *sqlite.DB) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, url, metadata, extracted_at) VALUES ('a', 'u', '{}', '2024-01-01T00:00:00Z')`)
			require.NoError(t, err)
			return errors.New("boom")
		})
		require.EqualError(t, err, "boom")

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&count))
		require.Zero(t, count)
	})

	t.Run("commits when fn succeeds", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		err := db.InTx(ctx, func(tx *sqlite.DB) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, url, metadata, extracted_at) VALUES ('a', 'u', '{}', '2024-01-01T00:00:00Z')`)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&count))
		require.Equal(t, 1, count)
	})
}
