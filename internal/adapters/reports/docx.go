package reports

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const docxFormat = "docx"

// DocxRenderer renders the catalog as a Word (DOCX) document.
type DocxRenderer struct{}

// NewDocxRenderer creates a new DOCX renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Format returns the output format name.
func (r *DocxRenderer) Format() string {
	return docxFormat
}

// Render writes the report as DOCX.
func (r *DocxRenderer) Render(report *domain.CatalogReport, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	r.addTitle(document, report)
	r.addFormats(document, report)

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func (r *DocxRenderer) addTitle(document *docx.RootDoc, report *domain.CatalogReport) {
	_, _ = document.AddHeading(report.Title, 0)
	document.AddParagraph(fmt.Sprintf("Service: %s", report.ServiceURL))
	document.AddParagraph(fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(generatedAtLayout)))
	document.AddParagraph(summaryLine(report))
	document.AddEmptyParagraph()
}

func (r *DocxRenderer) addFormats(document *docx.RootDoc, report *domain.CatalogReport) {
	if len(report.Entries) == 0 {
		document.AddParagraph("The service reported no formats.")
		return
	}

	if report.RawTextCount() > 0 {
		_, _ = document.AddHeading("Raw text formats", 1)

		for _, e := range report.Entries {
			if e.RawText {
				document.AddParagraph(fmt.Sprintf("• %s", e.Format))
			}
		}

		document.AddEmptyParagraph()
	}

	_, _ = document.AddHeading("All formats", 1)

	for _, e := range report.Entries {
		document.AddParagraph(fmt.Sprintf("• %s (download as output.%s)", e.Format, e.Format))
	}
}
