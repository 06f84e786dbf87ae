// Package client calls a running cryptovault service. It is what a front end
// or script uses instead of building the HTTP exchange by hand.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"cryptovault/pkg/api"
	"cryptovault/pkg/engine"
	lenient "cryptovault/pkg/json"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 10 * time.Second
	maxBodySize    = 8 << 20
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a client for the service at baseURL ("" means DefaultBaseURL).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	h := cleanhttp.DefaultPooledClient()
	h.Timeout = DefaultTimeout
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: h}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Encrypt(ctx context.Context, message string, key int64, method string) (string, error) {
	return c.Transform(ctx, engine.Encrypt, api.NewTransformRequest(message, key, method))
}

func (c *Client) Decrypt(ctx context.Context, message string, key int64, method string) (string, error) {
	return c.Transform(ctx, engine.Decrypt, api.NewTransformRequest(message, key, method))
}

// Transform sends one request. Failures are either *APIError (the service
// answered with an error) or wrap ErrTransport. Nothing is retried.
func (c *Client) Transform(ctx context.Context, dir engine.Direction, req api.TransformRequest) (string, error) {
	path := api.PathEncrypt
	if dir == engine.Decrypt {
		path = api.PathDecrypt
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("client: encode request: %w", err)
	}
	status, raw, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &APIError{Status: status, Detail: errorDetail(raw)}
	}
	var res api.TransformResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("%w: unreadable response: %v", ErrTransport, err)
	}
	return res.Result, nil
}

// Methods asks the service which ciphers it has registered.
func (c *Client) Methods(ctx context.Context) ([]string, error) {
	status, raw, err := c.do(ctx, http.MethodGet, api.PathMethods, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Detail: errorDetail(raw)}
	}
	var res api.MethodsResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: unreadable response: %v", ErrTransport, err)
	}
	return res.Methods, nil
}

// Health returns nil when the service reports status "ok".
func (c *Client) Health(ctx context.Context) error {
	status, raw, err := c.do(ctx, http.MethodGet, api.PathHealth, nil)
	if err != nil {
		return err
	}
	var res api.HealthResponse
	if status != http.StatusOK || json.Unmarshal(raw, &res) != nil || res.Status != "ok" {
		return &APIError{Status: status, Detail: errorDetail(raw)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	return resp.StatusCode, raw, nil
}

// errorDetail takes "detail", then the legacy "error" field, then the raw
// body text.
func errorDetail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if obj, err := lenient.Parse(text); err == nil {
		if s, ok := obj.FirstString("detail", "error"); ok {
			return s
		}
	}
	return text
}
