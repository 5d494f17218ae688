// Package pagemeta extracts structured metadata (meta tags, canonical URL,
// images, links and headings) from a rendered web page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package pagemeta
