package pagemeta

import "strings"

// CSS selectors used by ExtractMetadata.
const (
	selectorMeta      = "meta"
	selectorCanonical = `link[rel="canonical"]`
	selectorImages    = "img"
	selectorLinks     = "a[href]"
	selectorHeadings  = "h1, h2, h3, h4, h5, h6"
)

// ExtractMetadata reads doc once and returns its metadata.
//
// Meta tags are identified by name, falling back to property when name is
// empty. An identifier containing "description", "keywords" or "author"
// (case-sensitive) overwrites the matching field, so the last matching tag
// wins and one tag may set several fields. Images, links and headings keep
// the first N elements in document order, as capped by limits.
//
// Returns EUNAVAILABLE if doc is nil or cannot be queried. No partial
// result is returned on error.
func ExtractMetadata(doc Document, limits Limits) (*PageMetadata, error) {
	if doc == nil {
		return nil, Errorf(EUNAVAILABLE, "document unavailable")
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	limits = limits.WithDefaults()

	m := NewPageMetadata()
	m.Language = doc.Language()
	m.Charset = doc.Charset()
	m.LastModified = doc.LastModified()

	metas, err := query(doc, selectorMeta)
	if err != nil {
		return nil, err
	}
	for _, meta := range metas {
		applyMeta(m, meta)
	}

	canonical, err := query(doc, selectorCanonical)
	if err != nil {
		return nil, err
	}
	if len(canonical) > 0 {
		m.Canonical = resolveAttr(doc, canonical[0], "href")
	}

	images, err := query(doc, selectorImages)
	if err != nil {
		return nil, err
	}
	for _, img := range first(images, limits.Images) {
		m.Images = append(m.Images, Image{
			Src:   resolveAttr(doc, img, "src"),
			Alt:   attr(img, "alt"),
			Title: attr(img, "title"),
		})
	}

	links, err := query(doc, selectorLinks)
	if err != nil {
		return nil, err
	}
	for _, a := range first(links, limits.Links) {
		m.Links = append(m.Links, Link{
			Href:  resolveAttr(doc, a, "href"),
			Text:  trimmedText(a),
			Title: attr(a, "title"),
		})
	}

	headings, err := query(doc, selectorHeadings)
	if err != nil {
		return nil, err
	}
	for _, h := range first(headings, limits.Headings) {
		m.Headings = append(m.Headings, Heading{
			Level: strings.ToLower(h.TagName()),
			Text:  trimmedText(h),
		})
	}

	return m, nil
}

func applyMeta(m *PageMetadata, meta Element) {
	name := attr(meta, "name")
	if name == "" {
		name = attr(meta, "property")
	}
	content := attr(meta, "content")
	if name == "" || content == "" {
		return
	}

	if strings.Contains(name, "description") {
		m.Description = content
	}
	if strings.Contains(name, "keywords") {
		m.Keywords = content
	}
	if strings.Contains(name, "author") {
		m.Author = content
	}
}

// query reports every document failure as EUNAVAILABLE. Only a rejected
// selector (EINVALID) keeps its code.
func query(doc Document, selector string) ([]Element, error) {
	els, err := doc.Query(selector)
	if err != nil {
		switch ErrorCode(err) {
		case EINVALID:
			return nil, err
		case EINTERNAL:
			return nil, Errorf(EUNAVAILABLE, "querying %q: %v", selector, err)
		default:
			return nil, Errorf(EUNAVAILABLE, "querying %q: %s", selector, ErrorMessage(err))
		}
	}
	return els, nil
}

func first(els []Element, n int) []Element {
	if len(els) > n {
		return els[:n]
	}
	return els
}

func attr(el Element, name string) string {
	v, _ := el.Attr(name)
	return v
}

// resolveAttr returns the attribute resolved to an absolute URL,
// or "" if the attribute is absent.
func resolveAttr(doc Document, el Element, name string) string {
	v, ok := el.Attr(name)
	if !ok {
		return ""
	}
	return doc.ResolveURL(strings.TrimSpace(v))
}

func trimmedText(el Element) string {
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
