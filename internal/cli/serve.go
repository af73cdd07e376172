package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/pandoc-web/internal/web"
)

type serveOptions struct {
	listenAddr string
}

func (c *CLI) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser front end",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}

	cmd.Flags().StringVarP(&c.serve.listenAddr, "listen", "l", "", "Listen address (default from configuration, :8080)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if c.serve.listenAddr != "" {
		cfg.ListenAddr = c.serve.listenAddr
	}

	orch, err := c.newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}

	// A failed load leaves the page without formats until a reload.
	if _, err := orch.LoadCatalog(cmd.Context()); err != nil {
		c.log.Errorf("Starting without formats: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	server := web.NewServer(c.log, orch, web.Options{
		ListenAddr:     cfg.ListenAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		ServiceURL:     cfg.BaseURL,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
