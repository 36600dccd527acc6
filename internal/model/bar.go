package model

import "time"

// DailyBar is a single daily OHLCV price bar.
//
// Defensive parsing can produce zero-valued fields for malformed provider
// payloads, so low <= open,close <= high is not guaranteed here. Callers
// must treat zero fields as "unknown" rather than a real price of zero.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Bullish reports whether the bar closed above its open.
func (b DailyBar) Bullish() bool { return b.Close > b.Open }

// Body is the absolute size of the candle body.
func (b DailyBar) Body() float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}

// Range is the high-to-low span of the bar.
func (b DailyBar) Range() float64 { return b.High - b.Low }

// BarSeries is an ordered sequence of daily bars, strictly ascending by date
// with no duplicate dates. A series is built once, from a parsed provider
// payload or a persisted document, and never mutated in place; analysis
// always operates on a snapshot.
type BarSeries []DailyBar

// Len returns the number of bars in the series.
func (s BarSeries) Len() int { return len(s) }

// Last returns the most recent bar. The second value is false on an empty series.
func (s BarSeries) Last() (DailyBar, bool) {
	if len(s) == 0 {
		return DailyBar{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the most recent n bars (all bars when fewer exist),
// still ascending by date.
func (s BarSeries) Tail(n int) BarSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Closes extracts the close prices in series order.
func (s BarSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}
