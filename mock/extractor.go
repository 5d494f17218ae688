package mock

import (
	"context"

	"github.com/fwojciec/pagemeta"
)

var _ pagemeta.PageExtractor = (*PageExtractor)(nil)

// PageExtractor is a mock implementation of pagemeta.PageExtractor.
type PageExtractor struct {
	ExtractPageFn func(ctx context.Context, url string) (*pagemeta.PageMetadata, error)
}

func (e *PageExtractor) ExtractPage(ctx context.Context, url string) (*pagemeta.PageMetadata, error) {
	return e.ExtractPageFn(ctx, url)
}
