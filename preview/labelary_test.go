package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNGReturnsBodyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake-png-bytes"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), BaseURL: srv.URL}
	data, err := c.RenderPNG(context.Background(), "^XA^FS^XZ", RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(data))
}

func TestRenderPNGRetriesOn429(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), BaseURL: srv.URL}
	data, err := c.RenderPNG(context.Background(), "^XA^XZ", RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 2, calls)
}

func TestRenderPNGReturnsErrorOnNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad zpl"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), BaseURL: srv.URL}
	_, err := c.RenderPNG(context.Background(), "garbage", RenderOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestLintParsesWarningsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "On", r.Header.Get("X-Linter"))
		w.Header().Set("X-Warnings", "12|3|^FO|0|field origin outside label|40|2|^A0|1|font too small")
		w.Write([]byte("ignored"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), BaseURL: srv.URL}
	warnings, err := c.Lint(context.Background(), "^XA\n  ^FO\n^XZ", RenderOptions{})
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, 12, warnings[0].ByteIndex)
	assert.Equal(t, "^FO", warnings[0].Command)
	require.NotNil(t, warnings[0].ParamIndex)
	assert.Equal(t, 0, *warnings[0].ParamIndex)
	assert.Equal(t, "field origin outside label", warnings[0].Message)
}

func TestLintWithNoWarningsHeaderReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ignored"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), BaseURL: srv.URL}
	warnings, err := c.Lint(context.Background(), "^XA^XZ", RenderOptions{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCompactZPLStripsWhitespaceAndNewlines(t *testing.T) {
	out := compactZPL("^XA\n  ^FO10,10\n^FS\n^XZ\n")
	assert.Equal(t, "^XA^FO10,10^FS^XZ", out)
}
