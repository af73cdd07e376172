package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GabrielNunesIT/pandoc-web/internal/adapters/reports"
	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const multipartMemory = 8 << 20

type formatsResponse struct {
	Formats []domain.Format `json:"formats"`
	RawText []domain.Format `json:"raw_text"`
}

type healthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
}

var reportContentTypes = map[string]string{
	"pdf":        "application/pdf",
	"docx":       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"confluence": "application/json",
}

var reportExtensions = map[string]string{
	"pdf":        "pdf",
	"docx":       "docx",
	"confluence": "json",
}

func (s *Server) handleIndex(c *gin.Context) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "page unavailable")
		return
	}

	c.Header("Content-Security-Policy",
		"default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; "+
			"base-uri 'self'; form-action 'self'; object-src 'none'; frame-ancestors 'none'")
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		CatalogLoaded: s.orch.Catalog() != nil,
	})
}

// handleFormats returns the catalog. While no catalog is loaded, each call is
// one reload attempt against the conversion service.
func (s *Server) handleFormats(c *gin.Context) {
	catalog, err := s.orch.LoadCatalog(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatsResponse{
		Formats: catalog.Formats(),
		RawText: domain.RawTextFormats(),
	})
}

func (s *Server) handleReport(c *gin.Context) {
	renderer, err := reports.ForFormat(c.DefaultQuery("format", "pdf"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNSUPPORTED_REPORT_FORMAT", err.Error())
		return
	}

	catalog, err := s.orch.LoadCatalog(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(domain.NewCatalogReport(catalog, s.opts.ServiceURL, s.now()), &buf); err != nil {
		s.log.Errorf("Failed to render %s report: %v", renderer.Format(), err)
		RespondError(c, http.StatusInternalServerError, "REPORT_FAILED", "could not render report")
		return
	}

	c.Header("Content-Disposition", attachmentDisposition("formats."+reportExtensions[renderer.Format()]))
	c.Data(http.StatusOK, reportContentTypes[renderer.Format()], buf.Bytes())
}

// handleConvert accepts multipart fields to, from, mode and either text or file.
func (s *Server) handleConvert(c *gin.Context) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondDomainError(c, err)
			return
		}
		RespondDomainError(c, fmt.Errorf("%w: expected a multipart form: %v", domain.ErrInvalidRequest, err))
		return
	}

	mode, err := domain.ParseMode(c.PostForm("mode"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	target := domain.Format(c.PostForm("to"))
	if err := s.orch.CheckMode(target, mode); err != nil {
		RespondDomainError(c, err)
		return
	}

	req, err := s.readRequest(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	req.Target = target

	if err := s.orch.Run(c.Request.Context(), req, mode, responsePresenter{c: c}); err != nil {
		RespondDomainError(c, err)
	}
}

// readRequest builds the payload part of a request. Text input needs a source
// format so the service can infer the dialect; a file carries its own name.
func (s *Server) readRequest(c *gin.Context) (domain.ConversionRequest, error) {
	req := domain.ConversionRequest{
		Source: domain.Format(c.PostForm("from")),
		Text:   c.PostForm("text"),
	}

	header, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		req.RequireSource = true
		return req, nil
	case err != nil:
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	f, err := header.Open()
	if err != nil {
		return req, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return req, fmt.Errorf("failed to read upload: %w", err)
	}

	req.File = &domain.File{Name: header.Filename, Data: data}

	return req, nil
}
