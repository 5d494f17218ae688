package mock

import (
	"context"

	"github.com/fwojciec/pagemeta"
)

var _ pagemeta.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of pagemeta.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snapshot *pagemeta.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*pagemeta.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter pagemeta.SnapshotFilter) ([]*pagemeta.Snapshot, error)
	DeleteSnapshotFn   func(ctx context.Context, id string) error
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snapshot *pagemeta.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snapshot)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*pagemeta.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter pagemeta.SnapshotFilter) ([]*pagemeta.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}
