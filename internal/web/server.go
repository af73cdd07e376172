// Package web serves the browser front end and its conversion API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/GabrielNunesIT/pandoc-web/internal/orchestrator"
)

const shutdownTimeout = 10 * time.Second

//go:embed static
var staticFS embed.FS

// Options configures the server.
type Options struct {
	ListenAddr     string
	AllowedOrigins []string
	MaxUploadBytes int64
	// ServiceURL is shown in catalog reports.
	ServiceURL string
}

// Server is the HTTP front end over an orchestrator.
type Server struct {
	log     logger.ILogger
	orch    *orchestrator.Orchestrator
	opts    Options
	handler http.Handler
	now     func() time.Time
}

// NewServer builds the router and middleware chain.
func NewServer(log logger.ILogger, orch *orchestrator.Orchestrator, opts Options) *Server {
	s := &Server{
		log:  log,
		orch: orch,
		opts: opts,
		now:  time.Now,
	}

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log), SecurityHeaders(), gin.Recovery())

	s.registerRoutes(engine)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
	}).Handler(engine)

	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static files missing: %v", err))
	}

	engine.GET("/", s.handleIndex)
	engine.StaticFS("/static", http.FS(static))
	engine.GET("/healthz", s.handleHealth)

	api := engine.Group("/api")
	api.GET("/formats", s.handleFormats)
	api.GET("/formats/report", s.handleReport)
	api.POST("/convert", s.handleConvert)
}

// Handler returns the full handler chain, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Infof("Listening on %s", s.opts.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down (timeout %s)", shutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	s.log.Infof("Server stopped")

	return nil
}
