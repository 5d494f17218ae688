// Package goquery provides a static HTML implementation of pagemeta.Document
// for pages that have already been fetched as markup.
package goquery

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/pagemeta"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"
)

// LastModifiedLayout is the layout browsers use for document.lastModified.
const LastModifiedLayout = "01/02/2006 15:04:05"

// Ensure Document implements pagemeta.Document at compile time.
var _ pagemeta.Document = (*Document)(nil)

// Document is a read-only handle over parsed HTML.
// Document is safe for concurrent use since it is never mutated after parsing.
type Document struct {
	doc          *goquery.Document
	base         *url.URL
	charset      string
	lastModified string
}

// Option configures a Document.
type Option func(*options)

type options struct {
	charset      string
	lastModified string
}

// WithCharset sets the document's character encoding, typically taken from the
// HTTP response. When not set, the encoding declared in the markup is used,
// falling back to UTF-8.
func WithCharset(name string) Option {
	return func(o *options) {
		o.charset = name
	}
}

// WithLastModified sets the document's last-modified time from an HTTP date,
// typically the Last-Modified response header. Unparseable values are ignored.
func WithLastModified(httpDate string) Option {
	return func(o *options) {
		o.lastModified = httpDate
	}
}

// NewDocument parses html as the page located at pageURL.
// Relative URLs resolve against the first <base href>, falling back to pageURL.
// An empty pageURL leaves relative URLs unresolved.
func NewDocument(html string, pageURL string, opts ...Option) (*Document, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var page *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, pagemeta.Errorf(pagemeta.EINVALID, "invalid page URL: %v", err)
		}
		page = u
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagemeta.Errorf(pagemeta.EINVALID, "failed to parse HTML: %v", err)
	}

	d := &Document{
		doc:          doc,
		base:         baseURL(doc, page),
		lastModified: formatLastModified(o.lastModified),
	}

	declared := declaredCharset(doc)
	switch {
	case o.charset != "":
		d.charset = CanonicalCharset(o.charset)
	case declared != "":
		d.charset = CanonicalCharset(declared)
	default:
		// Markup held in a Go string is already UTF-8.
		d.charset = "UTF-8"
	}

	return d, nil
}

// Query returns the elements matching selector in document order.
// Returns EINVALID for a selector that does not compile.
func (d *Document) Query(selector string) ([]pagemeta.Element, error) {
	if d == nil || d.doc == nil {
		return nil, pagemeta.Errorf(pagemeta.EUNAVAILABLE, "document unavailable")
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, pagemeta.Errorf(pagemeta.EINVALID, "invalid selector %q: %v", selector, err)
	}

	sel := d.doc.FindMatcher(m)
	els := make([]pagemeta.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		els = append(els, &Element{sel: s})
	})
	return els, nil
}

// Language returns the lang attribute of the html element.
func (d *Document) Language() string {
	if d == nil || d.doc == nil {
		return ""
	}
	lang, _ := d.doc.Find("html").First().Attr("lang")
	return lang
}

// Charset returns the canonical IANA name of the document's encoding.
func (d *Document) Charset() string {
	if d == nil {
		return ""
	}
	return d.charset
}

// LastModified returns the last-modified time in LastModifiedLayout (UTC),
// or "" if unknown.
func (d *Document) LastModified() string {
	if d == nil {
		return ""
	}
	return d.lastModified
}

// ResolveURL resolves ref against the document's base URL.
// The ref is returned unchanged if it cannot be parsed or there is no base.
func (d *Document) ResolveURL(ref string) string {
	if d == nil || d.base == nil {
		return ref
	}
	return resolveURL(d.base, ref)
}

// Element is a single element of a Document.
type Element struct {
	sel *goquery.Selection
}

// TagName returns the element's lowercase tag name.
func (e *Element) TagName() string {
	return goquery.NodeName(e.sel)
}

// Attr returns the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the combined text content of the element and its descendants.
func (e *Element) Text() (string, error) {
	return e.sel.Text(), nil
}

// CanonicalCharset maps an encoding label (e.g. "utf8", "latin1") to its
// IANA name (e.g. "UTF-8", "windows-1252"). Unknown labels are returned as-is.
func CanonicalCharset(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	e, name := charset.Lookup(label)
	if e == nil {
		return label
	}
	if iana, err := ianaindex.IANA.Name(e); err == nil && iana != "" {
		return iana
	}
	return name
}

// declaredCharset returns the encoding declared by <meta charset> or a
// <meta http-equiv="Content-Type"> tag, or "".
func declaredCharset(doc *goquery.Document) string {
	if cs, ok := doc.Find("meta[charset]").First().Attr("charset"); ok && strings.TrimSpace(cs) != "" {
		return cs
	}

	var cs string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "content-type") {
			return true
		}
		content, _ := s.Attr("content")
		_, params, err := mime.ParseMediaType(content)
		if err != nil {
			return true
		}
		cs = params["charset"]
		return cs == ""
	})
	return cs
}

// baseURL returns the first <base href> resolved against page, or page.
func baseURL(doc *goquery.Document, page *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return page
	}
	ref, err := url.Parse(stripTabsAndNewlines(strings.TrimSpace(href)))
	if err != nil {
		return page
	}
	if page == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return page.ResolveReference(ref)
}

func resolveURL(base *url.URL, href string) string {
	cleaned := stripTabsAndNewlines(href)
	if cleaned == "" {
		u := *base
		u.Fragment = ""
		u.RawFragment = ""
		return u.String()
	}
	ref, err := url.Parse(cleaned)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// stripTabsAndNewlines drops ASCII tab, CR and LF anywhere in s, as browsers
// do before parsing a URL.
func stripTabsAndNewlines(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}

func formatLastModified(httpDate string) string {
	if httpDate == "" {
		return ""
	}
	t, err := http.ParseTime(httpDate)
	if err != nil {
		return ""
	}
	return t.UTC().Format(LastModifiedLayout)
}
