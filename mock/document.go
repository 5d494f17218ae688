package mock

import "github.com/fwojciec/pagemeta"

// Compile-time interface verification.
var (
	_ pagemeta.Document = (*Document)(nil)
	_ pagemeta.Element  = (*Element)(nil)
)

// Document is a mock implementation of pagemeta.Document.
type Document struct {
	QueryFn        func(selector string) ([]pagemeta.Element, error)
	LanguageFn     func() string
	CharsetFn      func() string
	LastModifiedFn func() string
	ResolveURLFn   func(ref string) string
}

func (d *Document) Query(selector string) ([]pagemeta.Element, error) {
	return d.QueryFn(selector)
}

func (d *Document) Language() string {
	return d.LanguageFn()
}

func (d *Document) Charset() string {
	return d.CharsetFn()
}

func (d *Document) LastModified() string {
	return d.LastModifiedFn()
}

func (d *Document) ResolveURL(ref string) string {
	return d.ResolveURLFn(ref)
}

// Element is a mock implementation of pagemeta.Element.
type Element struct {
	TagNameFn func() string
	AttrFn    func(name string) (string, bool)
	TextFn    func() (string, error)
}

// NewElement returns an Element with the given tag, text and attributes.
// Attributes are passed as name/value pairs.
func NewElement(tag, text string, attrs ...string) *Element {
	m := make(map[string]string, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	return &Element{
		TagNameFn: func() string { return tag },
		AttrFn: func(name string) (string, bool) {
			v, ok := m[name]
			return v, ok
		},
		TextFn: func() (string, error) { return text, nil },
	}
}

func (e *Element) TagName() string {
	return e.TagNameFn()
}

func (e *Element) Attr(name string) (string, bool) {
	return e.AttrFn(name)
}

func (e *Element) Text() (string, error) {
	return e.TextFn()
}
