package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/pandoc-web/internal/adapters/pandocapi"
	"github.com/GabrielNunesIT/pandoc-web/internal/orchestrator"
	"github.com/GabrielNunesIT/pandoc-web/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// remoteStub fakes the conversion service and counts convert calls.
type remoteStub struct {
	server       *httptest.Server
	convertCalls int32
	formatsFail  atomic.Bool
	lastFilename atomic.Value
}

func newRemoteStub(t *testing.T) *remoteStub {
	t.Helper()

	stub := &remoteStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/formats":
			if stub.formatsFail.Load() {
				http.Error(w, "down", http.StatusInternalServerError)
				return
			}
			_, _ = io.WriteString(w, `{"markdown":{}, "html":{}, "docx":{}}`)
		case "/convert":
			atomic.AddInt32(&stub.convertCalls, 1)

			file, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()
			stub.lastFilename.Store(header.Filename)

			if r.URL.Query().Get("to") == "broken" {
				http.Error(w, "pandoc exited with code 64", http.StatusBadRequest)
				return
			}

			data, _ := io.ReadAll(file)
			_, _ = w.Write(bytes.ToUpper(data))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(stub.server.Close)

	return stub
}

func newTestServer(t *testing.T, stub *remoteStub, maxUpload int64) http.Handler {
	t.Helper()

	log := logger.NewConsoleLogger(os.Stdout)

	client, err := pandocapi.NewClient(stub.server.URL, nil)
	require.NoError(t, err)

	srv := web.NewServer(log, orchestrator.New(log, client), web.Options{
		ListenAddr:     ":0",
		AllowedOrigins: []string{"https://app.example"},
		MaxUploadBytes: maxUpload,
		ServiceURL:     stub.server.URL,
	})

	return srv.Handler()
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) web.APIError {
	t.Helper()

	var resp web.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)

	return *resp.Error
}

func TestIndex_ServesPage(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Pandoc Converter")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestStatic_ServesScript(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/convert")
}

func TestFormats_ReturnsCatalogAndAllowList(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Formats []string `json:"formats"`
		RawText []string `json:"raw_text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"docx", "html", "markdown"}, body.Formats)
	assert.Contains(t, body.RawText, "gfm")
	assert.NotContains(t, body.RawText, "docx")
}

func TestFormats_UnavailableThenReload(t *testing.T) {
	stub := newRemoteStub(t)
	stub.formatsFail.Store(true)
	h := newTestServer(t, stub, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "CATALOG_UNAVAILABLE", decodeError(t, rec).Code)

	health := httptest.NewRecorder()
	h.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","catalog_loaded":false}`, health.Body.String())

	stub.formatsFail.Store(false)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReport_PDF(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats/report?format=pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="formats.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestReport_UnknownFormat(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/formats/report?format=odt", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNSUPPORTED_REPORT_FORMAT", decodeError(t, rec).Code)
}

func TestConvert_TextToFile(t *testing.T) {
	stub := newRemoteStub(t)
	h := newTestServer(t, stub, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"from": "markdown",
		"to":   "docx",
		"text": "# hi",
	}, "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="output.docx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "# HI", rec.Body.String())
	assert.Equal(t, "input.markdown", stub.lastFilename.Load())
}

func TestConvert_TextToRaw(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"from": "markdown",
		"to":   "html",
		"mode": "raw",
		"text": "<h1>hi</h1>",
	}, "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "<H1>HI</H1>", rec.Body.String())
}

func TestConvert_FileKeepsName(t *testing.T) {
	stub := newRemoteStub(t)
	h := newTestServer(t, stub, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{"to": "html"}, "notes.rst", []byte("title")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "notes.rst", stub.lastFilename.Load())
	assert.Equal(t, `attachment; filename="output.html"`, rec.Header().Get("Content-Disposition"))
}

func TestConvert_RawOutsideAllowListRejectedBeforeCall(t *testing.T) {
	stub := newRemoteStub(t)
	h := newTestServer(t, stub, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"from": "markdown",
		"to":   "docx",
		"mode": "raw",
		"text": "# hi",
	}, "", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "RAW_TEXT_NOT_SUPPORTED", decodeError(t, rec).Code)
	assert.Zero(t, atomic.LoadInt32(&stub.convertCalls))
}

func TestConvert_InvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "missing target", fields: map[string]string{"from": "markdown", "text": "# hi"}},
		{name: "missing text", fields: map[string]string{"from": "markdown", "to": "html"}},
		{name: "text without source", fields: map[string]string{"to": "html", "text": "# hi"}},
		{name: "unknown mode", fields: map[string]string{"from": "markdown", "to": "html", "text": "# hi", "mode": "zip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newRemoteStub(t)
			h := newTestServer(t, stub, 1<<20)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, multipartRequest(t, tt.fields, "", nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
			assert.Zero(t, atomic.LoadInt32(&stub.convertCalls))
		})
	}
}

func TestConvert_NotMultipart(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(`{"to":"html"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
}

func TestConvert_RemoteFailure(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"from": "markdown",
		"to":   "broken",
		"text": "# hi",
	}, "", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	apiErr := decodeError(t, rec)
	assert.Equal(t, "CONVERSION_FAILED", apiErr.Code)
	assert.Contains(t, apiErr.Message, "pandoc exited with code 64")
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestConvert_UploadTooLarge(t *testing.T) {
	stub := newRemoteStub(t)
	h := newTestServer(t, stub, 1024)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, map[string]string{"to": "html"}, "big.md", bytes.Repeat([]byte("a"), 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, rec).Code)
	assert.Zero(t, atomic.LoadInt32(&stub.convertCalls))
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(t, newRemoteStub(t), 1<<20)

	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
