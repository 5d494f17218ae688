package pagemeta

import "context"

// Default truncation limits. Only the first N elements in document order are kept.
const (
	DefaultMaxImages   = 10
	DefaultMaxLinks    = 20
	DefaultMaxHeadings = 20
)

// PageMetadata is the metadata extracted from a single page.
// Absent data is represented by empty strings and empty slices, never nil.
type PageMetadata struct {
	Description  string    `json:"description"`
	Keywords     string    `json:"keywords"`
	Author       string    `json:"author"`
	Canonical    string    `json:"canonical"`
	Language     string    `json:"language"`
	Charset      string    `json:"charset"`
	LastModified string    `json:"lastModified"`
	Images       []Image   `json:"images"`
	Links        []Link    `json:"links"`
	Headings     []Heading `json:"headings"`
}

// NewPageMetadata returns a record with all fields empty and non-nil slices.
func NewPageMetadata() *PageMetadata {
	return &PageMetadata{
		Images:   []Image{},
		Links:    []Link{},
		Headings: []Heading{},
	}
}

// Normalize replaces nil slices with empty ones so the record serializes
// sequences as [] rather than null.
func (m *PageMetadata) Normalize() {
	if m.Images == nil {
		m.Images = []Image{}
	}
	if m.Links == nil {
		m.Links = []Link{}
	}
	if m.Headings == nil {
		m.Headings = []Heading{}
	}
}

// Image describes an img element.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title"`
}

// Link describes an anchor element carrying an href attribute.
type Link struct {
	Href  string `json:"href"`
	Text  string `json:"text"`
	Title string `json:"title"`
}

// Heading describes an h1-h6 element. Level is the lowercased tag name.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Limits caps the number of images, links and headings kept.
// A zero field means the corresponding default.
type Limits struct {
	Images   int `json:"images"`
	Links    int `json:"links"`
	Headings int `json:"headings"`
}

// DefaultLimits are the limits used when none are configured.
var DefaultLimits = Limits{
	Images:   DefaultMaxImages,
	Links:    DefaultMaxLinks,
	Headings: DefaultMaxHeadings,
}

// Validate returns an error if any limit is negative.
func (l Limits) Validate() error {
	if l.Images < 0 {
		return Errorf(EINVALID, "image limit must not be negative")
	}
	if l.Links < 0 {
		return Errorf(EINVALID, "link limit must not be negative")
	}
	if l.Headings < 0 {
		return Errorf(EINVALID, "heading limit must not be negative")
	}
	return nil
}

// WithDefaults returns a copy of l with zero fields replaced by defaults.
func (l Limits) WithDefaults() Limits {
	if l.Images == 0 {
		l.Images = DefaultMaxImages
	}
	if l.Links == 0 {
		l.Links = DefaultMaxLinks
	}
	if l.Headings == 0 {
		l.Headings = DefaultMaxHeadings
	}
	return l
}

// PageExtractor loads a page and extracts its metadata.
// Implementations hide whether the page is fetched over HTTP or rendered
// in a browser.
type PageExtractor interface {
	// ExtractPage loads the URL and returns the metadata of the resulting document.
	// The context controls timeout and cancellation of loading; extraction
	// itself does not block.
	ExtractPage(ctx context.Context, url string) (*PageMetadata, error)
}
