package contracts

import "time"

// Bar represents one OHLCV trading interval.
// Invariant: High >= max(Open, Close) >= min(Open, Close) >= Low.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered sequence of bars, strictly increasing by date.
// Missing trading days are simply absent; no component mutates a series.
type Series []Bar

// Closes returns the close prices in order
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar
func (s Series) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// LastClose returns the most recent close price, or 0 for an empty series
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Tail returns the trailing n bars (the whole series when shorter)
func (s Series) Tail(n int) Series {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
