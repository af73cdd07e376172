// Package cli provides the command-line interface for pandoc-web.
package cli

import (
	"fmt"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/pandoc-web/internal/adapters/pandocapi"
	"github.com/GabrielNunesIT/pandoc-web/internal/config"
	"github.com/GabrielNunesIT/pandoc-web/internal/contract"
	"github.com/GabrielNunesIT/pandoc-web/internal/orchestrator"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log        logger.ILogger
	rootCmd    *cobra.Command
	configPath string
	baseURL    string

	formats formatsOptions
	convert convertOptions
	serve   serveOptions
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "pandoc-web",
		Short:         "Convert documents through a remote pandoc service",
		Long:          "A browser front end and CLI that send text or files to a remote pandoc conversion API and return the result as a file or as raw text.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.rootCmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML configuration file")
	cli.rootCmd.PersistentFlags().StringVar(&cli.baseURL, "base-url", "", "Base URL of the conversion service (overrides configuration)")

	cli.rootCmd.AddCommand(
		cli.newFormatsCommand(),
		cli.newConvertCommand(),
		cli.newServeCommand(),
	)

	return cli
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// Root returns the root command.
func (c *CLI) Root() *cobra.Command {
	return c.rootCmd
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *CLI) newOrchestrator(cmd *cobra.Command, cfg *config.Config) (*orchestrator.Orchestrator, error) {
	endpoints, err := contract.Load(cmd.Context())
	if err != nil {
		return nil, err
	}

	client, err := pandocapi.NewClient(cfg.BaseURL, endpoints, pandocapi.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to create service client: %w", err)
	}

	return orchestrator.New(c.log, client), nil
}
