// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient talks to the restaurant backend REST API. It encodes JSON
// and multipart requests, turns error responses into APIError values and
// keeps admin calls authenticated through a refresh-once Session.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/olegiv/restro-web/internal/metrics"
)

// Client configuration constants
const (
	DefaultTimeout   = 15 * time.Second
	MaxResponseBytes = 10 << 20
	UserAgent        = "restro-web/1.0"
)

// Credentials are the tokens issued by the backend on login.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CSRFToken    string `json:"csrf_token"`
}

// Valid reports whether an access token is present.
func (c Credentials) Valid() bool {
	return c.AccessToken != ""
}

// Client is a backend API client. It is safe for concurrent use and carries
// no per-user state; tokens are passed on each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Doer performs backend requests. Session and the anonymous client both
// implement it.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Anonymous returns a Doer that sends no credentials.
func (c *Client) Anonymous() Doer {
	return anonymous{c: c}
}

type anonymous struct {
	c *Client
}

func (a anonymous) Do(ctx context.Context, req Request, out any) error {
	return a.c.Fetch(ctx, req, out)
}

// Fetch performs an anonymous request and decodes the JSON response into out.
func (c *Client) Fetch(ctx context.Context, req Request, out any) error {
	return c.Do(ctx, req, Credentials{}, out)
}

// Do performs req with creds and decodes the JSON response into out, which
// may be nil.
func (c *Client) Do(ctx context.Context, req Request, creds Credentials, out any) error {
	endpoint := endpointLabel(req.Path)
	start := time.Now()

	err := c.do(ctx, req, creds, out)

	metrics.BackendDuration.WithLabelValues(req.Method, endpoint).Observe(time.Since(start).Seconds())
	metrics.BackendRequests.WithLabelValues(req.Method, endpoint, outcome(err)).Inc()

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Debug("backend request failed",
			"method", req.Method,
			"path", req.Path,
			"error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, req Request, creds Credentials, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	body, contentType, err := req.body()
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if creds.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}
	if creds.CSRFToken != "" {
		httpReq.Header.Set("X-CSRF-Token", creds.CSRFToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.Path, ctxErr)
		}
		return fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", req.Method, req.Path, ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", req.Method, req.Path, err)
	}
	return nil
}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// endpointLabel collapses numeric path segments so metric labels stay bounded.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for idSegment.MatchString(path) {
		path = idSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%dxx", apiErr.Status/100)
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
