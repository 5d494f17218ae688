package pagemeta

import "context"

// FetchResult is a fetched HTML page.
type FetchResult struct {
	// URL is the final URL after redirects. Relative URLs resolve against it.
	URL string

	// HTML is the page body transcoded to UTF-8.
	HTML string

	// Charset is the IANA name of the page's original encoding.
	Charset string

	// LastModified is the raw Last-Modified header, if any.
	LastModified string
}

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
