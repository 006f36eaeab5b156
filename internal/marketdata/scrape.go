package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/santosa/bandarlab/internal/contracts"
)

// labels on the fallback site's key-statistics table, mapped to metric fields
var scrapeLabels = map[string]func(*contracts.FundamentalMetrics, float64){
	"PER":            func(m *contracts.FundamentalMetrics, v float64) { m.PER = &v },
	"PBV":            func(m *contracts.FundamentalMetrics, v float64) { m.PBV = &v },
	"ROE":            func(m *contracts.FundamentalMetrics, v float64) { m.ROE = &v },
	"ROA":            func(m *contracts.FundamentalMetrics, v float64) { m.ROA = &v },
	"EPS":            func(m *contracts.FundamentalMetrics, v float64) { m.EPS = &v },
	"DPS":            func(m *contracts.FundamentalMetrics, v float64) { m.DPS = &v },
	"Dividend Yield": func(m *contracts.FundamentalMetrics, v float64) { m.DividendYield = &v },
	"DER":            func(m *contracts.FundamentalMetrics, v float64) { m.DebtToEquity = &v },
	"Current Ratio":  func(m *contracts.FundamentalMetrics, v float64) { m.CurrentRatio = &v },
	"GPM":            func(m *contracts.FundamentalMetrics, v float64) { m.GrossMargin = &v },
	"NPM":            func(m *contracts.FundamentalMetrics, v float64) { m.NetMargin = &v },
	"Revenue Growth": func(m *contracts.FundamentalMetrics, v float64) { m.RevenueGrowth = &v },
	"EPS Growth":     func(m *contracts.FundamentalMetrics, v float64) { m.EarningsGrowth = &v },
	"Market Cap":     func(m *contracts.FundamentalMetrics, v float64) { m.MarketCap = &v },
}

// scrapeFundamentals parses the key-statistics table from the fallback site.
// The table rows are label/value pairs; unknown labels and unparseable
// values are skipped.
func (c *Client) scrapeFundamentals(ctx context.Context, symbol string) (contracts.FundamentalMetrics, error) {
	var metrics contracts.FundamentalMetrics

	pageURL := fmt.Sprintf("%s/saham/%s", c.fallbackURL, strings.ToUpper(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return metrics, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bandarlab/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return metrics, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return metrics, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return metrics, fmt.Errorf("parse HTML failed: %w", err)
	}

	found := 0
	doc.Find("table.key-statistics tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		setter, ok := scrapeLabels[label]
		if !ok {
			return
		}

		raw := strings.TrimSpace(row.Find("td").First().Text())
		value, err := parseScrapedNumber(raw)
		if err != nil {
			c.logger.Debugf("skipping %s for %s: unparseable value %q", label, symbol, raw)
			return
		}

		setter(&metrics, value)
		found++
	})

	if found == 0 {
		return metrics, fmt.Errorf("no metrics found on page for %s", symbol)
	}

	c.logger.Debugf("scraped %d fundamental metrics for %s", found, symbol)
	return metrics, nil
}

// parseScrapedNumber normalizes display formatting: thousands separators,
// percent signs and dash placeholders for missing values.
func parseScrapedNumber(raw string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "%", "", "x", "", "Rp", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" || cleaned == "N/A" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
