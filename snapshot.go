package pagemeta

import (
	"context"
	"time"
)

// Snapshot is a recorded extraction result for a URL.
type Snapshot struct {
	ID          string        `json:"id"`
	URL         string        `json:"url"`
	Metadata    *PageMetadata `json:"metadata"`
	Hash        string        `json:"hash"`
	ExtractedAt time.Time     `json:"extractedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "snapshot URL required")
	}
	if s.Metadata == nil {
		return Errorf(EINVALID, "snapshot metadata required")
	}
	return nil
}

// SnapshotService represents a service for managing extraction snapshots.
type SnapshotService interface {
	// CreateSnapshot records a new snapshot. ID, Hash and ExtractedAt are set
	// by the service.
	CreateSnapshot(ctx context.Context, snapshot *Snapshot) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)

	// DeleteSnapshot permanently removes a snapshot.
	// Returns ENOTFOUND if snapshot does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ResultStore persists extraction results with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ResultStore interface {
	Save(ctx context.Context, url string, metadata *PageMetadata) error
	Commit() error
	Abort() error
}
