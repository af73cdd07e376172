// Package domain provides core models and interfaces for the pandoc web front end.
package domain

import "sort"

// Format identifies a document format known to the remote conversion service.
// Comparison is case-sensitive.
type Format string

// String returns the raw identifier.
func (f Format) String() string {
	return string(f)
}

// rawTextFormats lists the targets whose output is readable as inline text.
var rawTextFormats = map[Format]struct{}{
	"markdown":          {},
	"markdown_strict":   {},
	"markdown_phpextra": {},
	"markdown_github":   {},
	"commonmark":        {},
	"gfm":               {},
	"latex":             {},
	"html":              {},
}

// IsRawTextFormat reports whether converting to f and showing the output as text makes sense.
func IsRawTextFormat(f Format) bool {
	_, ok := rawTextFormats[f]
	return ok
}

// RawTextFormats returns the raw-text allow-list, sorted.
func RawTextFormats() []Format {
	formats := make([]Format, 0, len(rawTextFormats))
	for f := range rawTextFormats {
		formats = append(formats, f)
	}

	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	return formats
}

// Catalog is the set of formats offered by the remote service.
// It is built once and never modified.
type Catalog struct {
	formats []Format
	index   map[Format]struct{}
}

// NewCatalog builds a catalog from the given identifiers.
// Empty identifiers and duplicates are dropped; the result is sorted.
func NewCatalog(formats []Format) *Catalog {
	c := &Catalog{
		index: make(map[Format]struct{}, len(formats)),
	}

	for _, f := range formats {
		if f == "" {
			continue
		}
		if _, seen := c.index[f]; seen {
			continue
		}

		c.index[f] = struct{}{}
		c.formats = append(c.formats, f)
	}

	sort.Slice(c.formats, func(i, j int) bool { return c.formats[i] < c.formats[j] })

	return c
}

// Formats returns a copy of the known formats.
func (c *Catalog) Formats() []Format {
	if c == nil {
		return nil
	}

	out := make([]Format, len(c.formats))
	copy(out, c.formats)

	return out
}

// Contains reports whether f is in the catalog.
func (c *Catalog) Contains(f Format) bool {
	if c == nil {
		return false
	}

	_, ok := c.index[f]

	return ok
}

// Len returns the number of formats.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.formats)
}
