// Package backend is the HTTP client for the Synexis REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080/api/synexis"

// DefaultMaxResponseBytes caps a response body, images included.
const DefaultMaxResponseBytes = 16 << 20

const maxErrorDetail = 512

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *Metrics
	// MaxResponseBytes caps response bodies. Zero selects
	// DefaultMaxResponseBytes.
	MaxResponseBytes int64
}

// Client issues requests against the backend.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	maxBody    int64
}

// New constructs a Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", raw)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseBytes
	}
	return &Client{base: base, httpClient: httpClient, logger: logger, metrics: cfg.Metrics, maxBody: maxBody}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.base.String() }

// URL joins path segments onto the base URL, escaping each segment.
func (c *Client) URL(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		for _, part := range strings.Split(strings.Trim(s, "/"), "/") {
			if part != "" {
				escaped = append(escaped, url.PathEscape(part))
			}
		}
	}
	return c.base.String() + "/" + strings.Join(escaped, "/")
}

// Body is a request payload.
type Body interface {
	Encode() (io.Reader, string, error)
}

type jsonBody struct{ v any }

// JSON wraps v as a JSON request body.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Call describes one backend request.
type Call struct {
	Resource string
	Op       string
	Method   string
	Path     []string
	Body     Body
	// AllowEmpty accepts an empty response body on success.
	AllowEmpty bool
}

// Do executes call and decodes a JSON response into out when out is non-nil.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	start := time.Now()
	err := c.do(ctx, call, out)
	c.metrics.observe(call.Resource, call.Op, start, err)
	if err != nil {
		c.logger.Warn("backend call failed",
			slog.String("resource", call.Resource),
			slog.String("op", call.Op),
			slog.String("kind", Kind(err)),
			slog.Any("error", err))
	}
	return err
}

func (c *Client) do(ctx context.Context, call Call, out any) error {
	raw, _, err := c.roundTrip(ctx, call)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if call.AllowEmpty || out == nil {
			return nil
		}
		return &Error{Resource: call.Resource, Op: call.Op, Status: http.StatusOK, Detail: "empty response", Err: ErrNotFound}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &Error{Resource: call.Resource, Op: call.Op, Detail: "decode response: " + err.Error(), Err: ErrNetwork}
	}
	return nil
}

// Blob is a binary response such as an image.
type Blob struct {
	ContentType string
	Data        []byte
}

// Fetch executes call and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, call Call) (Blob, error) {
	start := time.Now()
	raw, contentType, err := c.roundTrip(ctx, call)
	if err == nil && len(raw) == 0 {
		err = &Error{Resource: call.Resource, Op: call.Op, Status: http.StatusOK, Detail: "empty response", Err: ErrNotFound}
	}
	c.metrics.observe(call.Resource, call.Op, start, err)
	if err != nil {
		c.logger.Warn("backend fetch failed",
			slog.String("resource", call.Resource),
			slog.String("op", call.Op),
			slog.Any("error", err))
		return Blob{}, err
	}
	return Blob{ContentType: contentType, Data: raw}, nil
}

func (c *Client) roundTrip(ctx context.Context, call Call) ([]byte, string, error) {
	fail := func(status int, detail string, kind error) error {
		return &Error{Resource: call.Resource, Op: call.Op, Status: status, Detail: detail, Err: kind}
	}

	var body io.Reader
	contentType := ""
	if call.Body != nil {
		reader, ct, err := call.Body.Encode()
		if err != nil {
			return nil, "", fail(0, "encode request: "+err.Error(), ErrValidation)
		}
		body, contentType = reader, ct
	}
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(call.Path...), body)
	if err != nil {
		return nil, "", fail(0, err.Error(), ErrNetwork)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", &Error{Resource: call.Resource, Op: call.Op, Err: errors.Join(ErrNetwork, ctxErr)}
		}
		return nil, "", fail(0, err.Error(), ErrNetwork)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, "", fail(resp.StatusCode, "read response: "+err.Error(), ErrNetwork)
	}
	if int64(len(raw)) > c.maxBody {
		return nil, "", fail(resp.StatusCode, fmt.Sprintf("response exceeds %d bytes", c.maxBody), ErrNetwork)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fail(resp.StatusCode, detail(raw), ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict:
		return nil, "", fail(resp.StatusCode, detail(raw), ErrValidation)
	case resp.StatusCode >= 300:
		return nil, "", fail(resp.StatusCode, detail(raw), ErrNetwork)
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

// detail extracts a short message from an error response body.
func detail(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, s := range []string{payload.Message, payload.Detail, payload.Error} {
			if s != "" {
				return s
			}
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorDetail {
		cut := maxErrorDetail
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// ID formats an entity identifier as a path segment.
func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}
