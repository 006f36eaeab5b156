package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/santosa/bandarlab/internal/contracts"
)

const dateLayout = "2006-01-02"

type candleDTO struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type priceHistoryResponse struct {
	Symbol string      `json:"symbol"`
	Data   []candleDTO `json:"data"`
}

// GetPriceHistory fetches daily OHLCV bars for a symbol. Bars come back
// sorted oldest first; rows with an unparseable date are skipped.
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) (contracts.Series, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format(dateLayout))
	params.Set("to", to.Format(dateLayout))

	var resp priceHistoryResponse
	if err := c.getJSON(ctx, "/v1/price/history", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", symbol, err)
	}

	series := make(contracts.Series, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			c.logger.Warnf("skipping candle with bad date %q for %s", row.Date, symbol)
			continue
		}
		series = append(series, contracts.Bar{
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	c.logger.Debugf("fetched %d bars for %s", len(series), symbol)
	return series, nil
}
