package pagemeta

import (
	"fmt"
	"strings"
)

// FormatMetadata formats extracted metadata as a human-readable summary.
// Empty scalar fields and empty sections are omitted.
func FormatMetadata(url string, m *PageMetadata) string {
	var b strings.Builder
	b.WriteString("## Page: " + url + "\n")
	if m == nil {
		return b.String()
	}

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	field("description", m.Description)
	field("keywords", m.Keywords)
	field("author", m.Author)
	field("canonical", m.Canonical)
	field("language", m.Language)
	field("charset", m.Charset)
	field("last modified", m.LastModified)

	if len(m.Headings) > 0 {
		b.WriteString("\nheadings:\n")
		for _, h := range m.Headings {
			fmt.Fprintf(&b, "  %s %s\n", h.Level, h.Text)
		}
	}

	if len(m.Links) > 0 {
		b.WriteString("\nlinks:\n")
		for _, l := range m.Links {
			if l.Text != "" {
				fmt.Fprintf(&b, "  %s (%s)\n", l.Href, l.Text)
			} else {
				fmt.Fprintf(&b, "  %s\n", l.Href)
			}
		}
	}

	if len(m.Images) > 0 {
		b.WriteString("\nimages:\n")
		for _, img := range m.Images {
			if img.Alt != "" {
				fmt.Fprintf(&b, "  %s (%s)\n", img.Src, img.Alt)
			} else {
				fmt.Fprintf(&b, "  %s\n", img.Src)
			}
		}
	}

	return b.String()
}
