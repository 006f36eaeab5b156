package bandarmology

import (
	"fmt"
	"math"
	"sort"

	"github.com/santosa/bandarlab/internal/contracts"
	"github.com/santosa/bandarlab/pkg/logger"
)

const maxRankedBrokers = 10

// Analyzer classifies broker-level trade summaries into accumulation or
// distribution, identifies foreign and smart-money flow, and blends the
// detected patterns into a confidence-weighted overall signal.
type Analyzer struct {
	smartMoney map[string]bool
	logger     *logger.Logger
}

// NewAnalyzer creates an analyzer with the default smart-money code table
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return NewAnalyzerWithCodes(DefaultSmartMoneyCodes, log)
}

// NewAnalyzerWithCodes creates an analyzer with a custom smart-money table
func NewAnalyzerWithCodes(codes []string, log *logger.Logger) *Analyzer {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return &Analyzer{
		smartMoney: set,
		logger:     log,
	}
}

// Analyze derives the bandarmology summary from one period's broker flows
func (a *Analyzer) Analyze(brokers []contracts.BrokerFlow) contracts.BandarmologySummary {
	// Work on a copy; the caller's slice is never reordered
	sorted := make([]contracts.BrokerFlow, len(brokers))
	copy(sorted, brokers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NetValue > sorted[j].NetValue
	})

	topBuyers := make([]contracts.BrokerFlow, 0, maxRankedBrokers)
	for _, b := range sorted {
		if b.NetValue > 0 && len(topBuyers) < maxRankedBrokers {
			topBuyers = append(topBuyers, b)
		}
	}

	topSellers := make([]contracts.BrokerFlow, 0, maxRankedBrokers)
	for i := len(sorted) - 1; i >= 0 && len(topSellers) < maxRankedBrokers; i-- {
		if sorted[i].NetValue < 0 {
			topSellers = append(topSellers, sorted[i])
		}
	}

	signals := make([]contracts.BandarmologySignal, 0, 4)

	foreign := a.analyzeForeignFlow(brokers, &signals)
	smartDirection := a.analyzeSmartMoney(brokers, &signals)
	a.analyzeConcentration(brokers, topBuyers, topSellers, &signals)

	var accumulation, distribution float64
	for _, s := range signals {
		switch s.Type {
		case contracts.FlowAccumulation:
			accumulation += s.Strength
		case contracts.FlowDistribution:
			distribution += s.Strength
		}
	}

	netScore := accumulation - distribution
	confidence := math.Min(95, math.Abs(netScore)/math.Max(math.Max(accumulation, distribution), 1)*100)

	var overall contracts.FlowSignal
	switch {
	case netScore > 1.5:
		overall = contracts.FlowStrongAccumulation
	case netScore > 0.5:
		overall = contracts.FlowSignalAccumulation
	case netScore < -1.5:
		overall = contracts.FlowStrongDistribution
	case netScore < -0.5:
		overall = contracts.FlowSignalDistribution
	default:
		overall = contracts.FlowSignalNeutral
	}

	a.logger.WithFields(map[string]interface{}{
		"brokers":    len(brokers),
		"net_score":  netScore,
		"overall":    overall,
		"confidence": confidence,
	}).Debug("Calculated bandarmology summary")

	return contracts.BandarmologySummary{
		OverallSignal:       overall,
		Confidence:          confidence,
		Signals:             signals,
		TopBuyers:           topBuyers,
		TopSellers:          topSellers,
		ForeignFlow:         foreign,
		SmartMoneyDirection: smartDirection,
	}
}

// analyzeForeignFlow summarizes the Asing-flagged brokers. Returns nil when
// no foreign broker traded in the period.
func (a *Analyzer) analyzeForeignFlow(brokers []contracts.BrokerFlow, signals *[]contracts.BandarmologySignal) *contracts.ForeignFlow {
	var netBuy, netSell, netValue, traded float64
	found := false

	for _, b := range brokers {
		if b.BrokerType != contracts.BrokerTypeForeign {
			continue
		}
		found = true
		if b.NetValue > 0 {
			netBuy += b.NetValue
		} else {
			netSell += -b.NetValue
		}
		netValue += b.NetValue
		traded += b.BuyValue + b.SellValue
	}

	if !found {
		return nil
	}

	intensity := 0.0
	if traded > 0 {
		intensity = math.Abs(netValue) / traded
	}

	flow := &contracts.ForeignFlow{
		NetBuy:    netBuy,
		NetSell:   netSell,
		NetValue:  netValue,
		Trend:     contracts.TrendFlat,
		Intensity: intensity,
	}

	if netValue > 0 {
		flow.Trend = contracts.TrendInflow
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowAccumulation,
			Strength:    math.Min(0.9, 0.5+intensity),
			Description: fmt.Sprintf("Foreign net inflow of %.0f", netValue),
		})
	} else if netValue < 0 {
		flow.Trend = contracts.TrendOutflow
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowDistribution,
			Strength:    math.Min(0.9, 0.5+intensity),
			Description: fmt.Sprintf("Foreign net outflow of %.0f", -netValue),
		})
	}

	return flow
}

// analyzeSmartMoney sums the net value of the tracked institutional cohort:
// brokers in the smart-money table plus every foreign-flagged broker.
func (a *Analyzer) analyzeSmartMoney(brokers []contracts.BrokerFlow, signals *[]contracts.BandarmologySignal) contracts.SignalDirection {
	var net float64
	for _, b := range brokers {
		if a.smartMoney[b.BrokerCode] || b.BrokerType == contracts.BrokerTypeForeign {
			net += b.NetValue
		}
	}

	switch {
	case net > 0:
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowAccumulation,
			Strength:    0.7,
			Description: "Smart money brokers are net buyers",
		})
		return contracts.SignalBullish
	case net < 0:
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowDistribution,
			Strength:    0.7,
			Description: "Smart money brokers are net sellers",
		})
		return contracts.SignalBearish
	default:
		return contracts.SignalNeutral
	}
}

// analyzeConcentration flags one-sided positioning of the ranked cohorts
// relative to the total traded value
func (a *Analyzer) analyzeConcentration(brokers []contracts.BrokerFlow, topBuyers, topSellers []contracts.BrokerFlow, signals *[]contracts.BandarmologySignal) {
	var totalTraded float64
	for _, b := range brokers {
		totalTraded += b.BuyValue + b.SellValue
	}
	if totalTraded <= 0 {
		return
	}

	var buyNet float64
	for _, b := range topBuyers {
		buyNet += b.NetValue
	}
	buyerConcentration := buyNet / totalTraded
	if buyerConcentration > 0.05 {
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowAccumulation,
			Strength:    math.Min(0.85, buyerConcentration*10),
			Description: fmt.Sprintf("Top buyers hold %.1f%% of traded value", buyerConcentration*100),
		})
	}

	var sellNet float64
	for _, b := range topSellers {
		sellNet += -b.NetValue
	}
	sellerConcentration := sellNet / totalTraded
	if sellerConcentration > 0.05 {
		*signals = append(*signals, contracts.BandarmologySignal{
			Type:        contracts.FlowDistribution,
			Strength:    math.Min(0.85, sellerConcentration*10),
			Description: fmt.Sprintf("Top sellers hold %.1f%% of traded value", sellerConcentration*100),
		})
	}
}
