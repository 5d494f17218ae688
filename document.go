package pagemeta

// Document is a read-only handle to a rendered page's element tree.
type Document interface {
	// Query returns the elements matching a CSS selector in document order.
	// An error means the document cannot be queried at all. ExtractMetadata
	// reports any error other than EINVALID as EUNAVAILABLE.
	Query(selector string) ([]Element, error)

	// Language returns the declared language of the root element, or "".
	Language() string

	// Charset returns the document's character encoding name, or "".
	Charset() string

	// LastModified returns the document's last-modified timestamp, or "".
	LastModified() string

	// ResolveURL resolves ref against the document's base URL.
	ResolveURL(ref string) string
}

// Element is a single element of a Document.
type Element interface {
	// TagName returns the element's tag name as reported by the document.
	TagName() string

	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)

	// Text returns the element's text content.
	Text() (string, error)
}
