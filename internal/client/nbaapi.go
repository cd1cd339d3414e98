package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/harryji168/nba-api/internal/metrics"
)

const maxRedirects = 10

// Client is the api-nba HTTP client. It performs single authenticated
// GET requests and records every attempt, success or failure, to the
// injected logger.
type Client struct {
	apiHost    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new api-nba client with a bounded timeout and
// redirect limit.
func NewClient(apiHost, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		apiHost: apiHost,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch performs one GET against url with RapidAPI auth headers and
// returns the raw body uninterpreted. The caller parses JSON.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	endpoint := url
	if i := strings.Index(endpoint, "?"); i >= 0 {
		endpoint = endpoint[:i]
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Str("url", url).
			Str("error", err.Error()).
			Msg("API request failed")
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().
			Str("url", url).
			Str("error", err.Error()).
			Msg("Failed to read response body")
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Info().
		Str("url", url).
		Int("status", resp.StatusCode).
		Str("response", string(body)).
		Msg("Successful request")
	metrics.RecordAPICall(endpoint, "success", time.Since(start).Seconds())

	return body, nil
}
