package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

// APIResponse is the envelope for JSON errors.
type APIResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// RespondDomainError maps err to a status and error code and sends it.
func RespondDomainError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	RespondError(c, status, code, msg)
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, domain.ErrRawTextNotSupported):
		return http.StatusBadRequest, "RAW_TEXT_NOT_SUPPORTED", err.Error()
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", err.Error()
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "could not load formats from the conversion service; reload to retry"
	case errors.Is(err, domain.ErrConversionFailed):
		return http.StatusBadGateway, "CONVERSION_FAILED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal error"
	}
}

// responsePresenter presents a conversion result as the HTTP response.
type responsePresenter struct {
	c *gin.Context
}

func (p responsePresenter) PresentDownload(data []byte, filename string) {
	p.c.Header("Content-Disposition", attachmentDisposition(filename))
	p.c.Header("Cache-Control", "no-store")
	p.c.Data(http.StatusOK, "application/octet-stream", data)
}

func (p responsePresenter) PresentText(text string) {
	p.c.Header("Cache-Control", "no-store")
	p.c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// attachmentDisposition returns a Content-Disposition header value with the
// filename sanitized to prevent header injection.
func attachmentDisposition(name string) string {
	safe := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)

	return fmt.Sprintf(`attachment; filename="%s"`, safe)
}
