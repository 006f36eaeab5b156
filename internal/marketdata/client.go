package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/santosa/bandarlab/pkg/config"
	"github.com/santosa/bandarlab/pkg/httputil"
	"github.com/santosa/bandarlab/pkg/logger"
)

// Client handles communication with the upstream stock-data API. All
// upstream calls go through this client so the request rate stays inside
// the API quota.
type Client struct {
	httpClient  *httputil.Client
	limiter     *rate.Limiter
	logger      *logger.Logger
	baseURL     string
	apiKey      string
	fallbackURL string
}

// NewClient creates a new market data client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(rate.Limit(cfg.MarketData.RateLimit), cfg.MarketData.RateLimit),
		logger:      log,
		baseURL:     cfg.MarketData.BaseURL,
		apiKey:      cfg.MarketData.APIKey,
		fallbackURL: cfg.MarketData.FallbackBaseURL,
	}
}

// getJSON performs a rate-limited GET and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}

	return nil
}
