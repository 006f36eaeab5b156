package contracts

// MACDValue holds the MACD line, its signal line and the histogram
type MACDValue struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the 20-period bands at 2 standard deviations
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// StochasticValue holds the latest %K/%D pair
type StochasticValue struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// IndicatorSet is a single most-recent-bar snapshot of all indicators for
// one series. A nil field means the series was shorter than that
// indicator's required lookback. Pointers are used deliberately: zero is a
// legitimate value for several fields (OBV, histogram), so absence must
// not collapse into it.
type IndicatorSet struct {
	RSI        *float64         `json:"rsi,omitempty"`
	MACD       *MACDValue       `json:"macd,omitempty"`
	Bollinger  *BollingerBands  `json:"bollinger,omitempty"`
	SMA20      *float64         `json:"sma20,omitempty"`
	SMA50      *float64         `json:"sma50,omitempty"`
	SMA200     *float64         `json:"sma200,omitempty"`
	EMA12      *float64         `json:"ema12,omitempty"`
	EMA26      *float64         `json:"ema26,omitempty"`
	ATR        *float64         `json:"atr,omitempty"`
	Stochastic *StochasticValue `json:"stochastic,omitempty"`
	OBV        *float64         `json:"obv,omitempty"`
	VWAP       *float64         `json:"vwap,omitempty"`
}
