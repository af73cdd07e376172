// Package reports renders the format catalog as PDF, Word or Confluence documents.
package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const generatedAtLayout = "2006-01-02 15:04 MST"

// ForFormat returns the renderer for a report format name.
func ForFormat(name string) (domain.ReportRenderer, error) {
	switch strings.ToLower(name) {
	case pdfFormat:
		return NewPDFRenderer(), nil
	case docxFormat, "word":
		return NewDocxRenderer(), nil
	case adfFormat, "adf":
		return NewADFRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s (supported: pdf, docx, confluence)", name)
	}
}

// ForPath picks a renderer from the extension of path. ".json" means Confluence ADF.
func ForPath(path string) (domain.ReportRenderer, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	switch ext {
	case "":
		return nil, fmt.Errorf("cannot infer report format from %q; pass --report-format", path)
	case "json":
		return NewADFRenderer(), nil
	default:
		return ForFormat(ext)
	}
}

// rawTextLabel returns the yes/no cell used in tables.
func rawTextLabel(raw bool) string {
	if raw {
		return "Yes"
	}

	return "No"
}

// summaryLine describes the catalog size in one sentence.
func summaryLine(report *domain.CatalogReport) string {
	return fmt.Sprintf("%d formats available, %d of them can be shown as raw text.",
		len(report.Entries), report.RawTextCount())
}
