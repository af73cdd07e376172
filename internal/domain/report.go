package domain

import (
	"io"
	"time"
)

// CatalogReport is a printable summary of the format catalog.
type CatalogReport struct {
	Title       string
	ServiceURL  string
	GeneratedAt time.Time
	Entries     []CatalogEntry
}

// CatalogEntry is one row of a CatalogReport.
type CatalogEntry struct {
	Format  Format
	RawText bool
}

// NewCatalogReport builds a report for the given catalog.
func NewCatalogReport(catalog *Catalog, serviceURL string, now time.Time) *CatalogReport {
	report := &CatalogReport{
		Title:       "Conversion Formats",
		ServiceURL:  serviceURL,
		GeneratedAt: now,
	}

	for _, f := range catalog.Formats() {
		report.Entries = append(report.Entries, CatalogEntry{
			Format:  f,
			RawText: IsRawTextFormat(f),
		})
	}

	return report
}

// RawTextCount returns how many entries can be shown as raw text.
func (r *CatalogReport) RawTextCount() int {
	n := 0
	for _, e := range r.Entries {
		if e.RawText {
			n++
		}
	}

	return n
}

// ReportRenderer writes a CatalogReport in a document format.
type ReportRenderer interface {
	// Render writes the report to output.
	Render(report *CatalogReport, output io.Writer) error

	// Format returns the output format name (e.g., "pdf", "docx").
	Format() string
}
