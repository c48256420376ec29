package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client issues raw GET requests against PokeAPI. It does no caching;
// see Service for the memoizing layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a PokeAPI client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListURL builds the URL of the list page starting at offset.
func (c *Client) ListURL(offset, limit int) string {
	return fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", c.baseURL, offset, limit)
}

// EntityURL builds the detail URL for an already-normalized key.
func (c *Client) EntityURL(key string) string {
	return c.baseURL + "/pokemon/" + url.PathEscape(key)
}

// GetList fetches and decodes the list page at pageURL.
func (c *Client) GetList(ctx context.Context, pageURL string) (*ListPage, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
		return nil, &FetchError{Kind: KindParse, URL: pageURL, Err: err}
	}
	return resp.page(), nil
}

// GetEntity fetches and decodes the detail record at entityURL.
func (c *Client) GetEntity(ctx context.Context, entityURL string) (*Entity, error) {
	body, err := c.get(ctx, entityURL)
	if err != nil {
		return nil, err
	}
	e, err := decodeEntity(body)
	if err != nil {
		return nil, &FetchError{Kind: KindParse, URL: entityURL, Err: err}
	}
	return e, nil
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("HTTP request failed",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &FetchError{Kind: KindNetwork, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// One byte past the excerpt limit is enough to know it was cut.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyExcerpt+1))
		c.logger.Debug("HTTP request returned error",
			slog.String("url", rawURL),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &FetchError{
			Kind:   KindHTTPStatus,
			URL:    rawURL,
			Status: resp.StatusCode,
			Body:   excerpt(bytes.TrimSpace(body)),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: rawURL, Err: err}
	}

	c.logger.Debug("HTTP request completed",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return body, nil
}
