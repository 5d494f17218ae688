package mock

import (
	"context"

	"github.com/fwojciec/pagemeta"
)

var _ pagemeta.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of pagemeta.ResultStore.
type ResultStore struct {
	SaveFn   func(ctx context.Context, url string, metadata *pagemeta.PageMetadata) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ResultStore) Save(ctx context.Context, url string, metadata *pagemeta.PageMetadata) error {
	return s.SaveFn(ctx, url, metadata)
}

func (s *ResultStore) Commit() error {
	return s.CommitFn()
}

func (s *ResultStore) Abort() error {
	return s.AbortFn()
}
