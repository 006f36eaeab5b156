package contracts

// TradeAction is the recommended action for a trading signal
type TradeAction string

const (
	ActionStrongBuy  TradeAction = "strong_buy"
	ActionBuy        TradeAction = "buy"
	ActionHold       TradeAction = "hold"
	ActionSell       TradeAction = "sell"
	ActionStrongSell TradeAction = "strong_sell"
)

// Timeframe is the suggested holding horizon
type Timeframe string

const (
	TimeframeShort  Timeframe = "short"
	TimeframeMedium Timeframe = "medium"
	TimeframeLong   Timeframe = "long"
)

// Trend labels the regression trend of the trailing window
type Trend string

const (
	TrendUp       Trend = "uptrend"
	TrendDown     Trend = "downtrend"
	TrendSideways Trend = "sideways"
)

// TradingSignal is the blended recommendation with risk levels.
// TargetPrice/StopLoss/RiskRewardRatio are nil for hold actions or when no
// stop could be placed.
type TradingSignal struct {
	Action          TradeAction `json:"action"`
	Confidence      float64     `json:"confidence"` // 5..95
	TargetPrice     *float64    `json:"target_price,omitempty"`
	StopLoss        *float64    `json:"stop_loss,omitempty"`
	RiskRewardRatio *float64    `json:"risk_reward_ratio,omitempty"`
	Timeframe       Timeframe   `json:"timeframe"`
	Reasoning       []string    `json:"reasoning"`
}

// QuantAnalysis is the terminal aggregate of the pipeline
type QuantAnalysis struct {
	Signal            TradingSignal `json:"signal"`
	TechnicalScore    float64       `json:"technical_score"`    // 0..100
	FundamentalScore  float64       `json:"fundamental_score"`  // 0..100
	BandarmologyScore float64       `json:"bandarmology_score"` // 0..100
	CompositeScore    float64       `json:"composite_score"`    // 0..100
	Momentum          float64       `json:"momentum"`           // percent
	Volatility        float64       `json:"volatility"`         // percent, annualized
	Trend             Trend         `json:"trend"`
	SupportLevels     []float64     `json:"support_levels"`    // descending, max 3
	ResistanceLevels  []float64     `json:"resistance_levels"` // ascending, max 3
}

// Direction is the predicted price direction
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionSideways Direction = "sideways"
)

// PredictionFactor is one named contribution to the probability blend
type PredictionFactor struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// PredictionResult is the probabilistic price-direction forecast
type PredictionResult struct {
	Direction      Direction          `json:"direction"`
	Probability    float64            `json:"probability"`     // 0..1 (of the predicted direction being up)
	ExpectedReturn float64            `json:"expected_return"` // percent
	Confidence     float64            `json:"confidence"`      // 10..90
	Factors        []PredictionFactor `json:"factors"`
}
