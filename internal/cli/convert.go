package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/pandoc-web/internal/adapters/presenters"
	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const stdinMarker = "-"

type convertOptions struct {
	from      string
	to        string
	text      string
	inputFile string
	outputDir string
	raw       bool
}

func (c *CLI) newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert text or a file through the conversion service",
		Example: `  pandoc-web convert --from markdown --to html --raw --text '# Hi'
  echo '# Hi' | pandoc-web convert --from markdown --to docx --text -
  pandoc-web convert --input notes.rst --to pdf --output-dir ./out`,
		Args: cobra.NoArgs,
		RunE: c.runConvert,
	}

	cmd.Flags().StringVarP(&c.convert.to, "to", "t", "", "Target format (required)")
	cmd.Flags().StringVarP(&c.convert.from, "from", "f", "", "Source format (required with --text)")
	cmd.Flags().StringVar(&c.convert.text, "text", "", "Text to convert; - reads standard input")
	cmd.Flags().StringVarP(&c.convert.inputFile, "input", "i", "", "Path of a file to convert")
	cmd.Flags().StringVarP(&c.convert.outputDir, "output-dir", "d", "", "Directory for the converted file (default from configuration)")
	cmd.Flags().BoolVar(&c.convert.raw, "raw", false, "Print the result as text instead of saving a file")

	_ = cmd.MarkFlagRequired("to")
	cmd.MarkFlagsMutuallyExclusive("text", "input")
	cmd.MarkFlagsOneRequired("text", "input")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, _ []string) error {
	mode := domain.ToFile
	if c.convert.raw {
		mode = domain.ToRaw
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	orch, err := c.newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}

	if err := orch.CheckMode(domain.Format(c.convert.to), mode); err != nil {
		return fmt.Errorf("%w (choose one of %v)", err, domain.RawTextFormats())
	}

	req, err := c.buildRequest(cmd.InOrStdin())
	if err != nil {
		return err
	}

	if mode == domain.ToRaw {
		sink := presenters.NewWriterPresenter(cmd.OutOrStdout())
		if err := orch.Run(cmd.Context(), req, mode, sink); err != nil {
			return err
		}
		return sink.Err()
	}

	outputDir := c.convert.outputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	sink := presenters.NewDirectoryPresenter(c.log, outputDir)
	if err := orch.Run(cmd.Context(), req, mode, sink); err != nil {
		return err
	}

	return sink.Err()
}

func (c *CLI) buildRequest(stdin io.Reader) (domain.ConversionRequest, error) {
	req := domain.ConversionRequest{
		Source: domain.Format(c.convert.from),
		Target: domain.Format(c.convert.to),
	}

	if c.convert.inputFile != "" {
		data, err := os.ReadFile(c.convert.inputFile)
		if err != nil {
			return req, fmt.Errorf("failed to read input file: %w", err)
		}

		req.File = &domain.File{Name: filepath.Base(c.convert.inputFile), Data: data}

		return req, nil
	}

	req.RequireSource = true
	req.Text = c.convert.text

	if c.convert.text == stdinMarker {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read standard input: %w", err)
		}
		if len(data) == 0 {
			return req, errors.New("standard input is empty")
		}
		req.Text = string(data)
	}

	return req, nil
}
