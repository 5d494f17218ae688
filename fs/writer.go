// Package fs provides file-based storage for extraction results.
package fs

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/pagemeta"
)

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagemeta.Errorf(pagemeta.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", pagemeta.Errorf(pagemeta.EINVALID, "URL %q has no host", rawURL)
	}
	for _, segment := range strings.Split(u.Path, "/") {
		if segment == ".." {
			return "", pagemeta.Errorf(pagemeta.EINVALID, "path traversal in URL %q", rawURL)
		}
	}

	host := strings.ReplaceAll(u.Host, ":", "_")
	p := strings.TrimPrefix(u.Path, "/")

	// Root or trailing slash → index.json
	if p == "" || strings.HasSuffix(p, "/") {
		return path.Join(host, p, "index.json"), nil
	}

	return path.Join(host, p) + ".json", nil
}

// record is the on-disk layout of a saved result.
type record struct {
	URL string `json:"url"`
	*pagemeta.PageMetadata
}

// FormatRecord encodes metadata for url as indented JSON.
func FormatRecord(url string, m *pagemeta.PageMetadata) ([]byte, error) {
	if m == nil {
		return nil, pagemeta.Errorf(pagemeta.EINVALID, "metadata required")
	}
	m.Normalize()
	b, err := json.MarshalIndent(record{URL: url, PageMetadata: m}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
