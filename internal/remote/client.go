// Package remote talks to the legacy JSON mock server that predates the bundled dataset.
// Routes follow {base}/{collection}[/{id}].
package remote

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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 1

	maxBodySize = 4 << 20
)

type Options struct {
	Timeout time.Duration
	// Retries is how many times a failed request is repeated. Zero means none.
	Retries int
	// RetryWait bounds the pause between attempts.
	RetryWait time.Duration
	// HTTPClient replaces the transport, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse remote base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 500 * time.Millisecond
	}

	rc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	rc.HTTPClient.Timeout = opts.Timeout
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = opts.RetryWait
	rc.RetryWaitMax = opts.RetryWait
	rc.Logger = slog.Default()
	// hand the last response back so status codes reach the caller
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{baseURL: baseURL, http: rc}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Ready checks the remote answers at all.
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, "ready", http.MethodGet, "/ready", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body any
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = raw
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	slog.DebugContext(ctx, "remote request", "op", op, "method", method, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxBodySize)); err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.WarnContext(ctx, "remote request failed", "op", op, "status", resp.StatusCode)
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}
	if out == nil || buf.Len() == 0 {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func route(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
