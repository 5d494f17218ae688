package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagemeta"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagemeta.SnapshotService = (*SnapshotService)(nil)
var _ pagemeta.ResultStore = (*SnapshotStore)(nil)

// SnapshotService implements pagemeta.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateSnapshot records a new snapshot. The hash covers the JSON encoding
// of the metadata, so identical extractions share a hash.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snapshot *pagemeta.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	snapshot.Metadata.Normalize()
	data, err := json.Marshal(snapshot.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	snapshot.ID = uuid.New().String()
	snapshot.ExtractedAt = time.Now().UTC().Truncate(time.Second)
	snapshot.Hash = hashContent(data)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, url, metadata, hash, extracted_at)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.URL, string(data), snapshot.Hash, snapshot.ExtractedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*pagemeta.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, metadata, hash, extracted_at
		FROM snapshots
		WHERE id = ?
	`, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagemeta.Errorf(pagemeta.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter pagemeta.SnapshotFilter) ([]*pagemeta.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, metadata, hash, extracted_at FROM snapshots WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY extracted_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*pagemeta.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// DeleteSnapshot permanently removes a snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pagemeta.Errorf(pagemeta.ENOTFOUND, "snapshot not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*pagemeta.Snapshot, error) {
	var snapshot pagemeta.Snapshot
	var metadata, extractedAt string

	if err := row.Scan(&snapshot.ID, &snapshot.URL, &metadata, &snapshot.Hash, &extractedAt); err != nil {
		return nil, err
	}

	snapshot.Metadata = pagemeta.NewPageMetadata()
	if err := json.Unmarshal([]byte(metadata), snapshot.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	snapshot.Metadata.Normalize()

	var err error
	snapshot.ExtractedAt, err = parseRFC3339(extractedAt, "extracted_at")
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// SnapshotStore adapts SnapshotService to pagemeta.ResultStore. Saved
// snapshots are buffered and written in one transaction on Commit.
// SnapshotStore is safe for concurrent use.
type SnapshotStore struct {
	svc *SnapshotService

	mu      sync.Mutex
	pending []*pagemeta.Snapshot
}

// NewSnapshotStore creates a SnapshotStore writing through svc.
func NewSnapshotStore(svc *SnapshotService) *SnapshotStore {
	return &SnapshotStore{svc: svc}
}

// Save buffers a snapshot of metadata for url.
func (s *SnapshotStore) Save(ctx context.Context, url string, metadata *pagemeta.PageMetadata) error {
	snapshot := &pagemeta.Snapshot{URL: url, Metadata: metadata}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = append(s.pending, snapshot)
	s.mu.Unlock()
	return nil
}

// Commit writes all buffered snapshots in one transaction.
func (s *SnapshotStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.svc.db.InTx(context.Background(), func(tx *DB) error {
		svc := NewSnapshotService(tx)
		for _, snapshot := range s.pending {
			if err := svc.CreateSnapshot(context.Background(), snapshot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.pending = nil
	return nil
}

// Abort discards buffered snapshots.
func (s *SnapshotStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}
