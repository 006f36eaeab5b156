package marketdata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/santosa/bandarlab/internal/contracts"
)

type fundamentalsResponse struct {
	Symbol string                       `json:"symbol"`
	Data   contracts.FundamentalMetrics `json:"data"`
}

// GetFundamentals fetches the latest financial ratios for a symbol. When the
// primary API fails and a fallback base URL is configured, the ratios are
// scraped from the fallback site instead.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (contracts.FundamentalMetrics, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp fundamentalsResponse
	err := c.getJSON(ctx, "/v1/fundamental", params, &resp)
	if err == nil {
		return resp.Data, nil
	}

	if c.fallbackURL == "" {
		return contracts.FundamentalMetrics{}, fmt.Errorf("fetch fundamentals for %s: %w", symbol, err)
	}

	c.logger.Warnf("fundamental API failed for %s, scraping fallback: %v", symbol, err)
	metrics, scrapeErr := c.scrapeFundamentals(ctx, symbol)
	if scrapeErr != nil {
		return contracts.FundamentalMetrics{}, fmt.Errorf("fetch fundamentals for %s: api: %v, fallback: %w", symbol, err, scrapeErr)
	}
	return metrics, nil
}
