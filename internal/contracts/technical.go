package contracts

// SignalDirection is the direction of a single indicator signal
type SignalDirection string

const (
	SignalBullish SignalDirection = "bullish"
	SignalBearish SignalDirection = "bearish"
	SignalNeutral SignalDirection = "neutral"
)

// OverallSignal is the blended technical verdict for one series
type OverallSignal string

const (
	OverallStrongBuy  OverallSignal = "strong_buy"
	OverallBuy        OverallSignal = "buy"
	OverallNeutral    OverallSignal = "neutral"
	OverallSell       OverallSignal = "sell"
	OverallStrongSell OverallSignal = "strong_sell"
)

// TechnicalSignal is one evaluated indicator's directional read
type TechnicalSignal struct {
	Indicator   string          `json:"indicator"`
	Signal      SignalDirection `json:"signal"`
	Strength    float64         `json:"strength"` // 0..1
	Description string          `json:"description"`
}

// TechnicalSummary aggregates all signals for one series
type TechnicalSummary struct {
	OverallSignal OverallSignal     `json:"overall_signal"`
	Confidence    float64           `json:"confidence"` // 5..95
	Signals       []TechnicalSignal `json:"signals"`
	Indicators    IndicatorSet      `json:"indicators"`
}
