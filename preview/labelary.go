// Package preview renders ZPL to a raster image via Labelary's hosted ZPL
// viewer, and lints ZPL through Labelary's own linter, entirely out of
// process: the compiler core never rasterizes anything itself.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	baseURL           = "http://api.labelary.com/v1/printers"
	minSecondsBetween = 400 * time.Millisecond
	retryBackoff      = 750 * time.Millisecond
	maxAttempts       = 3
)

// Client talks to the Labelary service, rate-limiting itself to one
// request per minSecondsBetween across all calls sharing the Client, the
// same way a single labelary.py process-wide lock does.
type Client struct {
	HTTPClient *http.Client
	// BaseURL overrides the Labelary endpoint root, for pointing tests at
	// a local server. Defaults to the public Labelary API.
	BaseURL string

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient returns a Client using http.DefaultClient unless overridden.
func NewClient() *Client {
	return &Client{HTTPClient: http.DefaultClient}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return baseURL
}

// Warning is one diagnostic Labelary's linter reported for a ZPL program.
type Warning struct {
	ByteIndex  int
	ByteSize   int
	Command    string
	ParamIndex *int
	Message    string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	elapsed := time.Since(c.lastCall)
	if c.lastCall.IsZero() {
		c.lastCall = time.Now()
		return
	}
	if elapsed < minSecondsBetween {
		time.Sleep(minSecondsBetween - elapsed)
	}
	c.lastCall = time.Now()
}

func (c *Client) labelURL(dpmm int, widthIn, heightIn float64, index int) string {
	return fmt.Sprintf("%s/%ddpmm/labels/%sx%s/%d/", c.baseURL(), dpmm,
		trimFloat(widthIn), trimFloat(heightIn), index)
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

// RenderOptions parameterize a Labelary render/lint request.
type RenderOptions struct {
	DPMM         int
	LabelWidthIn float64
	LabelHeightIn float64
	Index        int
	Compact      bool
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.DPMM == 0 {
		o.DPMM = 8
	}
	if o.LabelWidthIn == 0 {
		o.LabelWidthIn = 4.0
	}
	if o.LabelHeightIn == 0 {
		o.LabelHeightIn = 6.0
	}
	return o
}

// RenderPNG renders zpl and returns the PNG bytes Labelary produces.
func (c *Client) RenderPNG(ctx context.Context, zpl string, opts RenderOptions) ([]byte, error) {
	opts = opts.withDefaults()
	url := c.labelURL(opts.DPMM, opts.LabelWidthIn, opts.LabelHeightIn, opts.Index)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "label.zpl")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(zpl)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	resp, err := c.postWithRetry(ctx, url, writer.FormDataContentType(), body.Bytes(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Lint sends zpl to Labelary's linter endpoint and returns the warnings it
// reports via the X-Warnings response header.
func (c *Client) Lint(ctx context.Context, zpl string, opts RenderOptions) ([]Warning, error) {
	opts = opts.withDefaults()
	if opts.Compact {
		zpl = compactZPL(zpl)
	}
	url := c.labelURL(opts.DPMM, opts.LabelWidthIn, opts.LabelHeightIn, opts.Index)

	headers := map[string]string{
		"X-Linter":     "On",
		"Content-Type": "application/x-www-form-urlencoded",
	}
	resp, err := c.postWithRetry(ctx, url, "application/x-www-form-urlencoded", []byte(zpl), headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return parseWarnings(resp.Header.Get("X-Warnings")), nil
}

func (c *Client) postWithRetry(ctx context.Context, url, contentType string, body []byte, extraHeaders map[string]string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c.rateLimit()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "image/png")
		req.Header.Set("Content-Type", contentType)
		for k, v := range extraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient().Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxAttempts-1 {
			resp.Body.Close()
			time.Sleep(retryBackoff)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("labelary error %d: %s", resp.StatusCode, string(data))
		}
		return resp, nil
	}
	return nil, lastErr
}

func compactZPL(zpl string) string {
	var b strings.Builder
	for _, line := range strings.Split(zpl, "\n") {
		trimmed := strings.TrimSpace(line)
		b.WriteString(trimmed)
	}
	return b.String()
}

func parseWarnings(header string) []Warning {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, "|")
	var warnings []Warning
	for i := 0; i+4 < len(parts); i += 5 {
		byteIndex, _ := strconv.Atoi(parts[i])
		byteSize, _ := strconv.Atoi(parts[i+1])
		command := parts[i+2]
		var paramIndex *int
		if parts[i+3] != "" {
			if v, err := strconv.Atoi(parts[i+3]); err == nil {
				paramIndex = &v
			}
		}
		message := parts[i+4]
		warnings = append(warnings, Warning{
			ByteIndex:  byteIndex,
			ByteSize:   byteSize,
			Command:    command,
			ParamIndex: paramIndex,
			Message:    message,
		})
	}
	return warnings
}
