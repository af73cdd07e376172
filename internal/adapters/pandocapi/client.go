// Package pandocapi talks to the remote pandoc conversion service over HTTP.
package pandocapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GabrielNunesIT/pandoc-web/internal/contract"
	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const maxDiagnosticLen = 500

// Client calls the formats and convert endpoints of the remote service.
type Client struct {
	baseURL   *url.URL
	endpoints *contract.Endpoints
	http      *http.Client
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets a whole-request timeout on whichever HTTP client is in use,
// regardless of option order. Zero keeps the client's own timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a client for the service rooted at baseURL.
// A nil endpoints value uses contract.Default.
func NewClient(baseURL string, endpoints *contract.Endpoints, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	if endpoints == nil {
		endpoints = contract.Default()
	}

	c := &Client{
		baseURL:   u,
		endpoints: endpoints,
		http:      &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}

	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchFormats returns the format identifiers the service knows, sorted.
// Only the keys of the JSON object are used.
func (c *Client) FetchFormats(ctx context.Context) ([]domain.Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.endpoints.FormatsPath, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling formats endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading formats response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("formats endpoint error (status %d): %s", resp.StatusCode, diagnostic(body))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding formats response: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decoding formats response: expected a JSON object")
	}

	formats := make([]domain.Format, 0, len(raw))
	for key := range raw {
		formats = append(formats, domain.Format(key))
	}

	return domain.NewCatalog(formats).Formats(), nil
}

// Convert posts one document and returns the response body unchanged.
// Failures are reported as *domain.ConversionError.
func (c *Client) Convert(ctx context.Context, upload domain.Upload) ([]byte, error) {
	body, contentType, err := c.multipartBody(upload)
	if err != nil {
		return nil, &domain.ConversionError{Message: "could not encode upload", Err: err}
	}

	query := url.Values{}
	query.Set(c.endpoints.TargetParam, upload.Target.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.endpoints.ConvertPath, query), body)
	if err != nil {
		return nil, &domain.ConversionError{Message: "could not build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.ConversionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ConversionError{StatusCode: resp.StatusCode, Message: "reading response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := diagnostic(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &domain.ConversionError{StatusCode: resp.StatusCode, Message: msg}
	}

	return data, nil
}

func (c *Client) multipartBody(upload domain.Upload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(c.endpoints.FileField), escapeQuotes(upload.Filename)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}

// endpoint joins path onto the base URL, keeping any base path prefix.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawQuery = query.Encode()

	return u.String()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func diagnostic(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxDiagnosticLen {
		return s
	}

	cut := maxDiagnosticLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}
