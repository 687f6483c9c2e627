// Package upstream provides the HTTP client that fetches tiles from the
// NASA WMTS services.
package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cosmozoom/tilegate/domain/tile"
	"github.com/cosmozoom/tilegate/ports"
)

// maxTileBytes bounds a single tile response. WMTS tiles are 256x256
// images, far below this; the limit guards against a misbehaving upstream.
const maxTileBytes = 16 << 20

// Config tunes the shared transport.
type Config struct {
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	UserAgent       string
}

// Client fetches tiles over HTTP. One Client is shared by all requests;
// the timeout is applied per call via context, not on the http.Client,
// so each body's profile can set its own deadline.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates an upstream client with a pooled transport.
func New(cfg Config) *Client {
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 100
	}
	idleTimeout := cfg.IdleConnTimeout
	if idleTimeout == 0 {
		idleTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdle,
		MaxIdleConnsPerHost: maxIdle,
		IdleConnTimeout:     idleTimeout,
	}

	return &Client{
		http:      &http.Client{Transport: transport},
		userAgent: cfg.UserAgent,
	}
}

// Fetch performs one GET for a tile and categorizes the result. The
// deadline covers connection, headers, and the full body read. No
// retries happen here; retry policy belongs to the caller's side of the
// proxy boundary.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) tile.Outcome {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return tile.Outcome{Kind: tile.OutcomeNetworkError, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return categorize(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxTileBytes))
		return tile.Outcome{Kind: tile.OutcomeHTTPError, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTileBytes))
	if err != nil {
		return categorize(ctx, err)
	}

	return tile.Outcome{
		Kind:        tile.OutcomeSuccess,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
}

// categorize separates deadline expiry from other transport failures.
// A canceled parent context (client disconnect) reports as a network
// error; nobody is left to read the response either way.
func categorize(ctx context.Context, err error) tile.Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return tile.Outcome{Kind: tile.OutcomeTimeout, Err: err}
	}
	return tile.Outcome{Kind: tile.OutcomeNetworkError, Err: err}
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

var _ ports.Fetcher = (*Client)(nil)
