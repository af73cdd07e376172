package reports

import (
	"fmt"
	"io"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFormat      = "pdf"
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

// PDFRenderer renders the catalog as a PDF document.
type PDFRenderer struct {
	pdf *gofpdf.Fpdf
}

// NewPDFRenderer creates a new PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Format returns the output format name.
func (r *PDFRenderer) Format() string {
	return pdfFormat
}

// Render writes the report as PDF.
func (r *PDFRenderer) Render(report *domain.CatalogReport, output io.Writer) error {
	r.pdf = gofpdf.New("P", "mm", "A4", "")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.AddPage()

	r.addHeader(report)
	r.addFormatTable(report.Entries)

	if err := r.pdf.Output(output); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (r *PDFRenderer) addHeader(report *domain.CatalogReport) {
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.CellFormat(pdfPageWidth, 12, report.Title, "", 1, "", false, 0, "")
	r.pdf.Ln(2)

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(pdfPageWidth, 6, report.ServiceURL, "", 1, "", false, 0, report.ServiceURL)
	r.pdf.CellFormat(pdfPageWidth, 6, "Generated "+report.GeneratedAt.Format(generatedAtLayout), "", 1, "", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(4)

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.MultiCell(pdfPageWidth, 6, summaryLine(report), "", "", false)
	r.pdf.Ln(4)
}

func (r *PDFRenderer) addFormatTable(entries []domain.CatalogEntry) {
	if len(entries) == 0 {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.CellFormat(pdfPageWidth, 6, "The service reported no formats.", "", 1, "", false, 0, "")
		return
	}

	colWidths := []float64{70, 30, 90}
	headers := []string{"Format", "Raw text", "Download name"}

	r.addTableHeader(colWidths, headers)

	r.pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		if r.pageBreakNeeded(pdfLineHeight + 1) {
			r.pdf.AddPage()
			r.addTableHeader(colWidths, headers)
			r.pdf.SetFont("Arial", "", 9)
		}

		r.addTableRow(colWidths,
			[]string{e.Format.String(), rawTextLabel(e.RawText), "output." + e.Format.String()},
			[]string{"L", "C", "L"},
		)
	}
}

func (r *PDFRenderer) addTableHeader(colWidths []float64, headers []string) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(245, 245, 245)

	for i, header := range headers {
		r.pdf.CellFormat(colWidths[i], pdfLineHeight+1, header, "1", 0, "", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFRenderer) addTableRow(colWidths []float64, contents, aligns []string) {
	for i, content := range contents {
		r.pdf.CellFormat(colWidths[i], pdfLineHeight+1, content, "1", 0, aligns[i], false, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFRenderer) pageBreakNeeded(height float64) bool {
	_, pageHeight := r.pdf.GetPageSize()
	_, _, _, bottomMargin := r.pdf.GetMargins()

	return r.pdf.GetY()+height > pageHeight-bottomMargin-10
}
