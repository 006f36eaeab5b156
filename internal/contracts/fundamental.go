package contracts

// FundamentalMetrics is a sparse set of financial ratios. Any field may be
// absent independently of the others; absent metrics are simply not scored.
type FundamentalMetrics struct {
	PER            *float64 `json:"per,omitempty"`
	PBV            *float64 `json:"pbv,omitempty"`
	ROE            *float64 `json:"roe,omitempty"`
	ROA            *float64 `json:"roa,omitempty"`
	EPS            *float64 `json:"eps,omitempty"`
	DPS            *float64 `json:"dps,omitempty"`
	DividendYield  *float64 `json:"dividend_yield,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	GrossMargin    *float64 `json:"gross_margin,omitempty"`
	NetMargin      *float64 `json:"net_margin,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
	MarketCap      *float64 `json:"market_cap,omitempty"`
}

// FundamentalRating buckets the weighted fundamentals score
type FundamentalRating string

const (
	RatingExcellent FundamentalRating = "excellent"
	RatingGood      FundamentalRating = "good"
	RatingFair      FundamentalRating = "fair"
	RatingPoor      FundamentalRating = "poor"
	RatingWeak      FundamentalRating = "weak"
)

// FundamentalSignal is one scored metric
type FundamentalSignal struct {
	Metric      string          `json:"metric"`
	Value       string          `json:"value"`
	Signal      SignalDirection `json:"signal"`
	Score       float64         `json:"score"`  // 0..1
	Weight      float64         `json:"weight"`
	Description string          `json:"description,omitempty"`
}

// FundamentalSummary is the overall fundamentals verdict
type FundamentalSummary struct {
	Score         float64             `json:"score"` // 0..100, 50 when nothing was supplied
	OverallRating FundamentalRating   `json:"overall_rating"`
	Signals       []FundamentalSignal `json:"signals"`
}
