package httpapi

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zplgrid/zplgrid/counterstore"
	"github.com/zplgrid/zplgrid/draftstore"
	"github.com/zplgrid/zplgrid/library"
	"github.com/zplgrid/zplgrid/printer"
)

const simpleTemplateJSON = `{
  "schema_version": 1,
  "name": "greeting",
  "layout": {
    "kind": "leaf",
    "elements": [
      {"type": "text", "text": "Hello {name}", "font_height_mm": 4}
    ]
  }
}`

func newTestServer(t *testing.T) (*echo.Echo, *Server) {
	t.Helper()
	dir := t.TempDir()
	s := &Server{
		Library:  library.New(filepath.Join(dir, "templates")),
		Drafts:   draftstore.New(filepath.Join(dir, "drafts")),
		Counters: counterstore.New(filepath.Join(dir, "counters.json")),
		Printers: &printer.Config{Printers: []printer.Printer{}},
		Now:      func() time.Time { return time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC) },
	}
	e := echo.New()
	s.Register(e)
	return e, s
}

func doRequest(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRenderZPLReturnsCompiledOutput(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodPost, "/v1/render/zpl", map[string]any{
		"template":  json.RawMessage(simpleTemplateJSON),
		"target":    map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
		"variables": map[string]string{"name": "Ada"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.ZPL, "Hello Ada")
}

func TestRenderZPLMissingVariableIsBadRequest(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodPost, "/v1/render/zpl", map[string]any{
		"template": json.RawMessage(simpleTemplateJSON),
		"target":   map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderZPLMalformedTemplateIsBadRequest(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodPost, "/v1/render/zpl", map[string]any{
		"template": json.RawMessage(`{"schema_version": 1}`),
		"target":   map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftRoundTripsThroughCreateAndGet(t *testing.T) {
	e, _ := newTestServer(t)
	createRec := doRequest(e, http.MethodPost, "/v1/drafts", map[string]any{
		"template":  json.RawMessage(simpleTemplateJSON),
		"target":    map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
		"variables": map[string]string{"name": "Ada"},
	})
	require.Equal(t, http.StatusCreated, createRec.Code)
	var created draftResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	require.NotEmpty(t, created.DraftID)

	getRec := doRequest(e, http.MethodGet, "/v1/drafts/"+created.DraftID, nil)
	require.Equal(t, http.StatusOK, getRec.Code)
	var fetched draftResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	assert.Equal(t, created.DraftID, fetched.DraftID)
	assert.Equal(t, "Ada", fetched.Variables["name"])
}

func TestGetDraftUnknownIDReturnsNotFound(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/v1/drafts/0123456789abcdef0123456789abcdef", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrintUnknownPrinterReturnsNotFound(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodPost, "/v1/print/does-not-exist", map[string]any{
		"template":  json.RawMessage(simpleTemplateJSON),
		"target":    map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
		"variables": map[string]string{"name": "Ada"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrintDeliversToConfiguredPrinterAndCommitsCounters(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		received <- buf[:n]
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	e, s := newTestServer(t)
	s.Printers = &printer.Config{Printers: []printer.Printer{
		{
			ID: "dock-1",
			Connection: printer.Connection{
				Protocol:  "raw9100",
				Host:      host,
				Port:      port,
				TimeoutMS: 2000,
			},
		},
	}}

	counterTemplate := `{
	  "schema_version": 1,
	  "name": "ticket",
	  "layout": {
	    "kind": "leaf",
	    "elements": [
	      {"type": "text", "text": "Ticket {_counter_global}", "font_height_mm": 4}
	    ]
	  }
	}`

	rec := doRequest(e, http.MethodPost, "/v1/print/dock-1", map[string]any{
		"template": json.RawMessage(counterTemplate),
		"target":   map[string]any{"width_mm": 50, "height_mm": 25, "dpi": 203},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case payload := <-received:
		assert.Contains(t, string(payload), "Ticket 0", "the render itself only peeks the counter, seeing it before the post-print commit")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for printer to receive payload")
	}

	v, err := s.Counters.Peek("global")
	require.NoError(t, err)
	assert.Equal(t, 1, v, "expected the global counter scope touched by the template to be committed")
}

func TestTemplateCRUDLifecycle(t *testing.T) {
	e, _ := newTestServer(t)

	createRec := doRequest(e, http.MethodPost, "/v1/templates", map[string]any{
		"name":        "Asset Tag",
		"tags":        []string{"asset"},
		"template":    json.RawMessage(simpleTemplateJSON),
		"sample_data": json.RawMessage(`{"name": "Sample"}`),
	})
	require.Equal(t, http.StatusCreated, createRec.Code)
	var created templateDetail
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	assert.Equal(t, "asset-tag", created.ID)

	listRec := doRequest(e, http.MethodGet, "/v1/templates", nil)
	require.Equal(t, http.StatusOK, listRec.Code)
	var summaries []templateSummary
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)

	getRec := doRequest(e, http.MethodGet, "/v1/templates/"+created.ID, nil)
	require.Equal(t, http.StatusOK, getRec.Code)

	updateRec := doRequest(e, http.MethodPut, "/v1/templates/"+created.ID, map[string]any{
		"name":        "Asset Tag",
		"tags":        []string{"asset", "updated"},
		"template":    json.RawMessage(simpleTemplateJSON),
		"sample_data": json.RawMessage(`{"name": "Sample"}`),
	})
	require.Equal(t, http.StatusOK, updateRec.Code)
	var updated templateDetail
	require.NoError(t, json.Unmarshal(updateRec.Body.Bytes(), &updated))
	assert.Contains(t, updated.Tags, "updated")

	deleteRec := doRequest(e, http.MethodDelete, "/v1/templates/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, deleteRec.Code)

	getAfterDeleteRec := doRequest(e, http.MethodGet, "/v1/templates/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, getAfterDeleteRec.Code)
}

func TestGetTemplateUnknownIDReturnsNotFound(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/v1/templates/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
