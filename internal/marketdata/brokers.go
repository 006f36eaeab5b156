package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/santosa/bandarlab/internal/contracts"
)

type brokerFlowDTO struct {
	BrokerCode   string   `json:"broker_code"`
	BrokerName   string   `json:"broker_name"`
	BrokerType   string   `json:"broker_type"`
	BuyValue     float64  `json:"buy_value"`
	SellValue    float64  `json:"sell_value"`
	BuyVolume    float64  `json:"buy_volume"`
	SellVolume   float64  `json:"sell_volume"`
	BuyAvgPrice  *float64 `json:"buy_avg_price"`
	SellAvgPrice *float64 `json:"sell_avg_price"`
}

type brokerSummaryResponse struct {
	Symbol string          `json:"symbol"`
	Data   []brokerFlowDTO `json:"data"`
}

// GetBrokerSummary fetches aggregated per-broker transaction flows for a
// symbol over the given window.
func (c *Client) GetBrokerSummary(ctx context.Context, symbol string, from, to time.Time) ([]contracts.BrokerFlow, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format(dateLayout))
	params.Set("to", to.Format(dateLayout))

	var resp brokerSummaryResponse
	if err := c.getJSON(ctx, "/v1/broker/summary", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch broker summary for %s: %w", symbol, err)
	}

	flows := make([]contracts.BrokerFlow, 0, len(resp.Data))
	for _, row := range resp.Data {
		flows = append(flows, contracts.BrokerFlow{
			BrokerCode:   row.BrokerCode,
			BrokerName:   row.BrokerName,
			BrokerType:   row.BrokerType,
			BuyValue:     row.BuyValue,
			SellValue:    row.SellValue,
			NetValue:     row.BuyValue - row.SellValue,
			BuyVolume:    row.BuyVolume,
			SellVolume:   row.SellVolume,
			NetVolume:    row.BuyVolume - row.SellVolume,
			BuyAvgPrice:  row.BuyAvgPrice,
			SellAvgPrice: row.SellAvgPrice,
		})
	}

	c.logger.Debugf("fetched %d broker flows for %s", len(flows), symbol)
	return flows, nil
}
