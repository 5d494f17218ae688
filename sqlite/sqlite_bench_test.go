package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates a batch extraction: recording many snapshots one by one.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkSnapshotInserts(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkSnapshotInserts(b, true)
	})
}

func benchmarkSnapshotInserts(b *testing.B, useWAL bool) {
	b.Helper()

	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	svc := sqlite.NewSnapshotService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		snapshot := &pagemeta.Snapshot{
			URL:      fmt.Sprintf("https://example.com/docs/page%d", i),
			Metadata: testMetadata(fmt.Sprintf("Page %d with some additional text to make it more realistic.", i)),
		}
		if err := svc.CreateSnapshot(ctx, snapshot); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSnapshotStore measures committing a batch of snapshots in one transaction.
func BenchmarkSnapshotStore(b *testing.B) {
	const snapshotsPerBatch = 100

	tmpDir := b.TempDir()
	db := sqlite.NewDB(filepath.Join(tmpDir, "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	svc := sqlite.NewSnapshotService(db)
	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		store := sqlite.NewSnapshotStore(svc)
		for j := 0; j < snapshotsPerBatch; j++ {
			url := fmt.Sprintf("https://example.com/docs/page%d", j)
			if err := store.Save(ctx, url, testMetadata(url)); err != nil {
				b.Fatal(err)
			}
		}
		if err := store.Commit(); err != nil {
			b.Fatal(err)
		}
	}
}
