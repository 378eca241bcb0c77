package ggn

import (
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

	"ggnmatch/internal/logging"
	"ggnmatch/internal/textutil"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20
	apiKeyHeader     = "X-API-Key"
)

// LookupResult is the final answer for one name, after the optional retry
// with alternate punctuation.
type LookupResult struct {
	// Query is the name sent in the final request.
	Query string
	// Attempts is 1, or 2 when the alternate spelling was tried.
	Attempts int
	// Failed mirrors a remote "failure" status; Reason carries its error text.
	Failed bool
	Reason string
	Groups []Group
}

// Client searches GGN torrent groups by name.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "ggn")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(userAgent)
	}
}

// New creates a GGN client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ggn api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("ggn base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GroupURL returns the tracker page for a torrent group.
func (c *Client) GroupURL(groupID string) string {
	return c.baseURL + "/torrents.php?id=" + url.QueryEscape(groupID)
}

// Lookup searches for name. When the API reports failure and name has an
// alternate punctuation spelling, the search is repeated once with it and the
// second answer is final. Transport problems on either request are returned
// as *TransportError.
func (c *Client) Lookup(ctx context.Context, name string) (LookupResult, error) {
	resp, err := c.Search(ctx, name)
	if err != nil {
		return LookupResult{}, err
	}
	query := name
	attempts := 1

	if resp.Failed() {
		if alt, ok := textutil.AlternateQuotes(name); ok {
			c.logger.Debug("retrying search with alternate punctuation",
				logging.String(logging.FieldGame, name),
				logging.String(logging.FieldQuery, alt),
				logging.String("remote_error", resp.Error),
			)
			resp, err = c.Search(ctx, alt)
			if err != nil {
				return LookupResult{}, err
			}
			query = alt
			attempts = 2
		}
	}

	result := LookupResult{
		Query:    query,
		Attempts: attempts,
		Failed:   resp.Failed(),
		Reason:   resp.Error,
	}
	if !result.Failed {
		result.Groups = resp.Groups
	}
	return result, nil
}

// Search performs a single torrentgroup search by name.
func (c *Client) Search(ctx context.Context, name string) (*Response, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("search name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/api.php")
	if err != nil {
		return nil, fmt.Errorf("parse ggn url: %w", err)
	}
	params := url.Values{}
	params.Set("request", "torrentgroup")
	params.Set("name", name)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, &TransportError{Query: name, Err: fmt.Errorf("execute request (latency=%v): %w", latency, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &TransportError{
			Query:      name,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("ggn search returned %d (latency=%v)", resp.StatusCode, latency),
		}
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, &TransportError{Query: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode ggn response: %w", err)}
	}

	c.logger.Debug("ggn search complete",
		logging.String(logging.FieldQuery, name),
		logging.String("status", payload.Status),
		logging.Int("groups", len(payload.Groups)),
		logging.Duration("latency", latency),
	)
	return &payload, nil
}
