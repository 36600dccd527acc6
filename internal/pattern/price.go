// Package pattern detects candlestick, price and volume patterns over a bar
// series and derives trend, sentiment and risk classifications from the
// indicator layer. All functions are pure and scan fixed trailing windows:
// the last 5 bars for candlestick patterns, the last 10 for momentum and
// gaps.
package pattern

import (
	"github.com/shiv159/TradeWiseAi/internal/indicator"
	"github.com/shiv159/TradeWiseAi/internal/model"
)

const (
	// candleWindow is the number of recent bars scanned for candlestick patterns.
	candleWindow = 5
	// momentumLookback is the distance in bars for the momentum ratio.
	momentumLookback = 10
	// gapWindow is the number of recent bars scanned for opening gaps.
	gapWindow = 10
	// gapThresholdPct is the minimum absolute gap percentage worth reporting.
	gapThresholdPct = 2.0
)

// InsufficientData is the label used when a window is too short for a
// classification.
const InsufficientData = "INSUFFICIENT_DATA"

// Momentum classifies the ratio of the current close to the close ten bars
// prior into five buckets.
func Momentum(s model.BarSeries) string {
	if len(s) < momentumLookback+1 {
		return InsufficientData
	}
	current := s[len(s)-1].Close
	past := s[len(s)-1-momentumLookback].Close
	if past == 0 {
		return InsufficientData
	}

	momentum := current / past
	switch {
	case momentum > 1.05:
		return "STRONG_POSITIVE"
	case momentum > 1.02:
		return "POSITIVE"
	case momentum > 0.98:
		return "NEUTRAL"
	case momentum > 0.95:
		return "NEGATIVE"
	default:
		return "STRONG_NEGATIVE"
	}
}

// Volatility classifies the 20-period standard deviation of closes.
func Volatility(s model.BarSeries) string {
	sd, err := indicator.StdDev(s, indicator.DefaultVolatilityPeriod)
	if err != nil {
		return InsufficientData
	}
	return classifyVolatility(sd)
}

func classifyVolatility(sd float64) string {
	switch {
	case sd > 0.05:
		return "HIGH"
	case sd > 0.03:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// Gaps reports opening gaps above the threshold within the last gapWindow bars.
// The gap is measured from the previous close to the current open, in percent.
func Gaps(s model.BarSeries) []model.GapEvent {
	var gaps []model.GapEvent
	start := len(s) - gapWindow
	if start < 1 {
		start = 1
	}
	for i := start; i < len(s); i++ {
		prevClose := s[i-1].Close
		if prevClose == 0 {
			continue
		}
		gapPct := (s[i].Open - prevClose) / prevClose * 100
		if gapPct > gapThresholdPct || gapPct < -gapThresholdPct {
			gaps = append(gaps, model.GapEvent{Date: s[i].Date, Percent: gapPct})
		}
	}
	return gaps
}

// MACDTrend compares the current MACD line with the previous bar's value.
// Needs one bar beyond the slow period to form the previous reading.
func MACDTrend(s model.BarSeries) string {
	if len(s) < indicator.DefaultMACDSlowPeriod+1 {
		return InsufficientData
	}
	current, err := indicator.MACD(s, indicator.DefaultMACDFastPeriod, indicator.DefaultMACDSlowPeriod)
	if err != nil {
		return InsufficientData
	}
	previous, err := indicator.MACD(s[:len(s)-1], indicator.DefaultMACDFastPeriod, indicator.DefaultMACDSlowPeriod)
	if err != nil {
		return InsufficientData
	}

	switch {
	case current > previous && current > 0:
		return "STRONG_BULLISH"
	case current > previous:
		return "BULLISH_RECOVERY"
	case current > 0:
		return "BEARISH_CORRECTION"
	default:
		return "STRONG_BEARISH"
	}
}
