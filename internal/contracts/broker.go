package contracts

// Broker type labels as reported by the upstream API
const (
	BrokerTypeForeign    = "Asing"
	BrokerTypeLocal      = "Lokal"
	BrokerTypeGovernment = "Pemerintah"
)

// BrokerFlow is one broker's buy/sell summary for a symbol and period.
// NetValue is signed (buy minus sell).
type BrokerFlow struct {
	BrokerCode   string   `json:"broker_code"`
	BrokerName   string   `json:"broker_name"`
	BrokerType   string   `json:"broker_type"`
	BuyValue     float64  `json:"buy_value"`
	SellValue    float64  `json:"sell_value"`
	NetValue     float64  `json:"net_value"`
	BuyVolume    float64  `json:"buy_volume"`
	SellVolume   float64  `json:"sell_volume"`
	NetVolume    float64  `json:"net_volume"`
	BuyAvgPrice  *float64 `json:"buy_avg_price,omitempty"`
	SellAvgPrice *float64 `json:"sell_avg_price,omitempty"`
}

// FlowSignalType labels a bandarmology signal
type FlowSignalType string

const (
	FlowAccumulation FlowSignalType = "accumulation"
	FlowDistribution FlowSignalType = "distribution"
	FlowNeutral      FlowSignalType = "neutral"
)

// FlowSignal is the broker-flow verdict over a whole summary
type FlowSignal string

const (
	FlowStrongAccumulation FlowSignal = "strong_accumulation"
	FlowSignalAccumulation FlowSignal = "accumulation"
	FlowSignalNeutral      FlowSignal = "neutral"
	FlowSignalDistribution FlowSignal = "distribution"
	FlowStrongDistribution FlowSignal = "strong_distribution"
)

// FlowTrend labels the direction of foreign money
type FlowTrend string

const (
	TrendInflow  FlowTrend = "inflow"
	TrendOutflow FlowTrend = "outflow"
	TrendFlat    FlowTrend = "neutral"
)

// BandarmologySignal is one detected accumulation/distribution pattern
type BandarmologySignal struct {
	Type        FlowSignalType `json:"type"`
	Strength    float64        `json:"strength"` // 0..1
	Description string         `json:"description"`
}

// ForeignFlow summarizes foreign-flagged broker activity
type ForeignFlow struct {
	NetBuy    float64   `json:"net_buy"`
	NetSell   float64   `json:"net_sell"`
	NetValue  float64   `json:"net_value"`
	Trend     FlowTrend `json:"trend"`
	Intensity float64   `json:"intensity"` // 0..1
}

// BandarmologySummary is the broker-flow analysis for one symbol/period
type BandarmologySummary struct {
	OverallSignal       FlowSignal           `json:"overall_signal"`
	Confidence          float64              `json:"confidence"` // 0..95
	Signals             []BandarmologySignal `json:"signals"`
	TopBuyers           []BrokerFlow         `json:"top_buyers"`  // ranked by net value, max 10
	TopSellers          []BrokerFlow         `json:"top_sellers"` // ranked by net value, max 10
	ForeignFlow         *ForeignFlow         `json:"foreign_flow,omitempty"`
	SmartMoneyDirection SignalDirection      `json:"smart_money_direction"`
}
