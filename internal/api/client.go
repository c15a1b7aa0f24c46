package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/eod-data/internal/model"
)

const (
	// DefaultBaseURL is the production REST endpoint.
	DefaultBaseURL = "https://eodhistoricaldata.com/api"

	// DefaultBatchSize is the number of instruments sent per real-time request.
	DefaultBatchSize = 20
)

// Client provides access to the EOD Historical Data REST API.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger

	batchSize int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The token is required.
func NewClient(baseURL, apiToken string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiToken) == "" {
		return nil, model.ErrAPIKeyMissing
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    slog.Default(),
		batchSize: DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", c.batchSize)
	}

	return c, nil
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBatchSize sets how many instruments go into one real-time request.
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		c.batchSize = n
	}
}

// BatchSize returns the configured partition size.
func (c *Client) BatchSize() int {
	return c.batchSize
}
