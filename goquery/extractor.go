package goquery

import (
	"context"

	"github.com/fwojciec/pagemeta"
)

// Ensure PageExtractor implements pagemeta.PageExtractor at compile time.
var _ pagemeta.PageExtractor = (*PageExtractor)(nil)

// PageExtractor fetches static HTML and extracts metadata from it.
// It does not execute JavaScript; use rod.PageExtractor for rendered pages.
type PageExtractor struct {
	fetcher pagemeta.Fetcher
	limits  pagemeta.Limits
}

// ExtractorOption configures a PageExtractor.
type ExtractorOption func(*PageExtractor)

// WithLimits sets the truncation limits. Defaults to pagemeta.DefaultLimits.
func WithLimits(limits pagemeta.Limits) ExtractorOption {
	return func(e *PageExtractor) {
		e.limits = limits
	}
}

// NewPageExtractor creates a PageExtractor that loads pages with fetcher.
func NewPageExtractor(fetcher pagemeta.Fetcher, opts ...ExtractorOption) *PageExtractor {
	e := &PageExtractor{
		fetcher: fetcher,
		limits:  pagemeta.DefaultLimits,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractPage fetches url and extracts metadata from the response body.
// Relative URLs resolve against the final URL after redirects.
func (e *PageExtractor) ExtractPage(ctx context.Context, url string) (*pagemeta.PageMetadata, error) {
	res, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	pageURL := res.URL
	if pageURL == "" {
		pageURL = url
	}

	doc, err := NewDocument(res.HTML, pageURL,
		WithCharset(res.Charset),
		WithLastModified(res.LastModified),
	)
	if err != nil {
		return nil, err
	}

	return pagemeta.ExtractMetadata(doc, e.limits)
}
