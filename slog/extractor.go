package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagemeta"
)

// Ensure LoggingPageExtractor implements pagemeta.PageExtractor.
var _ pagemeta.PageExtractor = (*LoggingPageExtractor)(nil)

// LoggingPageExtractor wraps a PageExtractor with logging.
type LoggingPageExtractor struct {
	next   pagemeta.PageExtractor
	logger *slog.Logger
}

// NewLoggingPageExtractor creates a new LoggingPageExtractor.
func NewLoggingPageExtractor(next pagemeta.PageExtractor, logger *slog.Logger) *LoggingPageExtractor {
	return &LoggingPageExtractor{next: next, logger: logger}
}

// ExtractPage delegates to the wrapped extractor and logs result counts.
func (e *LoggingPageExtractor) ExtractPage(ctx context.Context, url string) (m *pagemeta.PageMetadata, err error) {
	defer func(begin time.Time) {
		var images, links, headings int
		if m != nil {
			images, links, headings = len(m.Images), len(m.Links), len(m.Headings)
		}
		e.logger.Info("extract",
			"url", url,
			"images", images,
			"links", links,
			"headings", headings,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractPage(ctx, url)
}
