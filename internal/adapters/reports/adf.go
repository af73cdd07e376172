package reports

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const adfFormat = "confluence"

// ADFRenderer renders the catalog as Atlassian Document Format (ADF) for Confluence.
type ADFRenderer struct{}

// NewADFRenderer creates a new ADF renderer.
func NewADFRenderer() *ADFRenderer {
	return &ADFRenderer{}
}

// Format returns the output format name.
func (r *ADFRenderer) Format() string {
	return adfFormat
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level int `json:"level,omitempty"`
}

type adfMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Render writes the report as ADF JSON.
func (r *ADFRenderer) Render(report *domain.CatalogReport, output io.Writer) error {
	doc := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{
			r.heading(report.Title, 1),
			r.paragraph(r.link(report.ServiceURL)),
			r.paragraph(r.text(fmt.Sprintf("Generated %s", report.GeneratedAt.Format(generatedAtLayout)))),
			r.paragraph(r.text(summaryLine(report))),
		},
	}

	if len(report.Entries) > 0 {
		doc.Content = append(doc.Content, r.heading("Formats", 2), r.table(report.Entries))
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (r *ADFRenderer) heading(text string, level int) adfNode {
	return adfNode{
		Type:    "heading",
		Attrs:   &adfAttrs{Level: level},
		Content: []adfNode{r.text(text)},
	}
}

func (r *ADFRenderer) paragraph(nodes ...adfNode) adfNode {
	return adfNode{Type: "paragraph", Content: nodes}
}

func (r *ADFRenderer) text(text string) adfNode {
	return adfNode{Type: "text", Text: text}
}

func (r *ADFRenderer) codeText(text string) adfNode {
	return adfNode{
		Type:  "text",
		Text:  text,
		Marks: []adfMark{{Type: "code"}},
	}
}

func (r *ADFRenderer) link(url string) adfNode {
	return adfNode{
		Type:  "text",
		Text:  url,
		Marks: []adfMark{{Type: "link", Attrs: map[string]any{"href": url}}},
	}
}

func (r *ADFRenderer) table(entries []domain.CatalogEntry) adfNode {
	header := adfNode{
		Type: "tableRow",
		Content: []adfNode{
			r.cell("tableHeader", r.text("Format")),
			r.cell("tableHeader", r.text("Raw text")),
		},
	}

	rows := []adfNode{header}
	for _, e := range entries {
		rows = append(rows, adfNode{
			Type: "tableRow",
			Content: []adfNode{
				r.cell("tableCell", r.codeText(e.Format.String())),
				r.cell("tableCell", r.text(rawTextLabel(e.RawText))),
			},
		})
	}

	return adfNode{Type: "table", Content: rows}
}

func (r *ADFRenderer) cell(kind string, content adfNode) adfNode {
	return adfNode{
		Type:    kind,
		Content: []adfNode{r.paragraph(content)},
	}
}
