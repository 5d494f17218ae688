package rod

import (
	"context"
	"regexp"
	"time"

	"github.com/fwojciec/pagemeta"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout is the default time allowed to load a page and extract.
const DefaultTimeout = 10 * time.Second

// ignoredRequests lists URL fragments of requests that never settle or do
// not affect page content. They are not tracked by the idle wait.
var ignoredRequests = []string{
	"analytics", "tracking", "telemetry", "beacon", "metrics",
	"doubleclick", "adsystem", "adserver", "advertising",
	"facebook.com/plugins", "platform.twitter", "linkedin.com/embed",
	"livechat", "zendesk", "intercom", "crisp.chat", "hotjar",
	"push-notifications", "onesignal", "pushwoosh",
	"heartbeat", "ping", "alive",
	"webrtc", "rtmp://", "wss://",
	"cloudfront.net", "fastly.net",
}

// untrackedResourceTypes are resource types the idle wait ignores. Documents,
// stylesheets, images, fonts, scripts and XHR/fetch calls are tracked.
var untrackedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeMedia,
	proto.NetworkResourceTypeTextTrack,
	proto.NetworkResourceTypeEventSource,
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeManifest,
	proto.NetworkResourceTypePing,
	proto.NetworkResourceTypeOther,
}

// idleExcludes returns the URL regexes excluded from the idle wait.
func idleExcludes() []string {
	excludes := []string{"^data:", "^blob:"}
	for _, s := range ignoredRequests {
		excludes = append(excludes, regexp.QuoteMeta(s))
	}
	return excludes
}

// Ensure PageExtractor implements pagemeta.PageExtractor at compile time.
var _ pagemeta.PageExtractor = (*PageExtractor)(nil)

// PageExtractor renders pages in Chrome and extracts metadata from the
// loaded document. PageExtractor is safe for concurrent use; each call
// uses its own page.
type PageExtractor struct {
	manager     *BrowserManager
	timeout     time.Duration
	renderDelay time.Duration
	idleWait    time.Duration
	limits      pagemeta.Limits
}

// ExtractorOption configures a PageExtractor.
type ExtractorOption func(*PageExtractor)

// WithTimeout sets the per-page timeout covering navigation, load and
// extraction. Defaults to DefaultTimeout (10s).
func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *PageExtractor) {
		e.timeout = d
	}
}

// WithRenderDelay sets an extra wait after the load event, for pages that
// render content asynchronously. Defaults to 0.
func WithRenderDelay(d time.Duration) ExtractorOption {
	return func(e *PageExtractor) {
		e.renderDelay = d
	}
}

// WithIdleWait makes ExtractPage wait, after the load event, until no tracked
// request has been in flight for d. Analytics, ads, chat widgets and similar
// long-lived requests are ignored. The wait is bounded by the page timeout.
// Defaults to 0 (disabled).
func WithIdleWait(d time.Duration) ExtractorOption {
	return func(e *PageExtractor) {
		e.idleWait = d
	}
}

// WithLimits sets the truncation limits. Defaults to pagemeta.DefaultLimits.
func WithLimits(limits pagemeta.Limits) ExtractorOption {
	return func(e *PageExtractor) {
		e.limits = limits
	}
}

// NewPageExtractor creates a PageExtractor that opens pages on manager.
// The caller keeps ownership of manager and must close it.
func NewPageExtractor(manager *BrowserManager, opts ...ExtractorOption) *PageExtractor {
	e := &PageExtractor{
		manager: manager,
		timeout: DefaultTimeout,
		limits:  pagemeta.DefaultLimits,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractPage navigates to url, waits for the load event, network idle (if
// enabled) and any render delay, then extracts metadata from the rendered
// document.
func (e *PageExtractor) ExtractPage(ctx context.Context, url string) (*pagemeta.PageMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, release, err := e.manager.NewPage()
	if err != nil {
		return nil, err
	}
	defer release()

	// The timeout starts once a page is available, so time spent waiting
	// for the browser to drain does not count against it.
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	page = page.Context(ctx)

	// Requests are tracked from navigation on, so the listener is
	// registered first.
	waitIdle := func() {}
	if e.idleWait > 0 {
		waitIdle = page.WaitRequestIdle(e.idleWait, nil, idleExcludes(), untrackedResourceTypes)
	}

	if err := page.Navigate(url); err != nil {
		return nil, err
	}

	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	waitIdle()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.renderDelay > 0 {
		timer := time.NewTimer(e.renderDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	return ExtractMetadata(page, e.limits)
}
