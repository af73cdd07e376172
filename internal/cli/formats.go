package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GabrielNunesIT/pandoc-web/internal/adapters/reports"
	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

type formatsOptions struct {
	output       string
	reportPath   string
	reportFormat string
}

// formatListing is the json/yaml shape of `formats`.
type formatListing struct {
	Formats []string `json:"formats" yaml:"formats"`
	RawText []string `json:"raw_text" yaml:"raw_text"`
}

func (c *CLI) newFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the formats offered by the conversion service",
		Args:  cobra.NoArgs,
		RunE:  c.runFormats,
	}

	cmd.Flags().StringVarP(&c.formats.output, "output", "o", "text", "Listing format: text, json, yaml")
	cmd.Flags().StringVar(&c.formats.reportPath, "report", "", "Also render the catalog to this file (pdf, docx or confluence)")
	cmd.Flags().StringVar(&c.formats.reportFormat, "report-format", "", "Report format; inferred from the --report extension when empty")

	return cmd
}

func (c *CLI) runFormats(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	orch, err := c.newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}

	c.log.Infof("Loading formats from: %s", cfg.BaseURL)

	catalog, err := orch.LoadCatalog(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load formats: %w", err)
	}

	if err := writeListing(cmd.OutOrStdout(), c.formats.output, catalog); err != nil {
		return err
	}

	if c.formats.reportPath == "" {
		return nil
	}

	return c.writeReport(domain.NewCatalogReport(catalog, cfg.BaseURL, time.Now()))
}

func writeListing(w io.Writer, output string, catalog *domain.Catalog) error {
	listing := formatListing{
		Formats: formatStrings(catalog.Formats()),
		RawText: formatStrings(domain.RawTextFormats()),
	}

	switch strings.ToLower(output) {
	case "text", "":
		for _, f := range catalog.Formats() {
			marker := ""
			if domain.IsRawTextFormat(f) {
				marker = "\t(raw text)"
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", f, marker); err != nil {
				return fmt.Errorf("failed to write listing: %w", err)
			}
		}
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(listing); err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}
		return nil
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		if err := encoder.Encode(listing); err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output: %s (supported: text, json, yaml)", output)
	}
}

func (c *CLI) writeReport(report *domain.CatalogReport) error {
	renderer, err := c.reportRenderer()
	if err != nil {
		return err
	}

	c.log.Infof("Rendering %s report...", renderer.Format())

	outputFile, err := os.Create(c.formats.reportPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	if err := renderer.Render(report, outputFile); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	c.log.Infof("Successfully created: %s", c.formats.reportPath)

	return nil
}

func (c *CLI) reportRenderer() (domain.ReportRenderer, error) {
	if c.formats.reportFormat != "" {
		return reports.ForFormat(c.formats.reportFormat)
	}

	return reports.ForPath(c.formats.reportPath)
}

func formatStrings(formats []domain.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.String()
	}

	return out
}
