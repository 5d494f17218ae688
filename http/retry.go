package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/pagemeta"
)

// Ensure RetryFetcher implements pagemeta.Fetcher at compile time.
var _ pagemeta.Fetcher = (*RetryFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFetcher wraps a Fetcher and retries transient failures with backoff.
// Network errors, 429 and 5xx responses are transient; invalid URLs, other
// status codes and context errors are returned immediately.
type RetryFetcher struct {
	next   pagemeta.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// RetryOption configures a RetryFetcher.
type RetryOption func(*RetryFetcher)

// WithRetryDelays sets the wait before each retry. The number of delays is
// the number of retries. Defaults to DefaultRetryDelays.
func WithRetryDelays(delays []time.Duration) RetryOption {
	return func(f *RetryFetcher) {
		f.delays = delays
	}
}

// WithRetryLogger logs each retry at debug level.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(f *RetryFetcher) {
		f.logger = logger
	}
}

// NewRetryFetcher creates a RetryFetcher around next.
func NewRetryFetcher(next pagemeta.Fetcher, opts ...RetryOption) *RetryFetcher {
	f := &RetryFetcher{
		next:   next,
		delays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch attempts the fetch up to len(delays)+1 times.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*pagemeta.FetchResult, error) {
	maxAttempts := len(f.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := f.next.Fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !isTransient(err) {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if f.logger != nil {
			f.logger.Debug("retry",
				"url", url,
				"attempt", attempt+2,
				"err", err,
			)
		}

		timer := time.NewTimer(f.delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// Close delegates to the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return pagemeta.ErrorCode(err) != pagemeta.EINVALID
}
