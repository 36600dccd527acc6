package pattern

import (
	"github.com/shiv159/TradeWiseAi/internal/indicator"
	"github.com/shiv159/TradeWiseAi/internal/model"
)

// slopeLookback is how many bars back the moving average is compared against.
const slopeLookback = 5

// TrendStrength interprets an ADX value.
func TrendStrength(adx float64) string {
	switch {
	case adx > 50:
		return "VERY_STRONG_TREND"
	case adx > 25:
		return "STRONG_TREND"
	case adx > 20:
		return "MODERATE_TREND"
	default:
		return "WEAK_TREND"
	}
}

// Trend computes the ADX-based strength plus SMA20/SMA50 slopes.
// Slopes are omitted (empty) when the window is too short.
func Trend(s model.BarSeries) model.TrendAnalysis {
	var t model.TrendAnalysis
	if d, err := indicator.ADX(s, indicator.DefaultADXPeriod); err == nil {
		t.ADX = model.Float(d.ADX)
		t.Strength = TrendStrength(d.ADX)
	} else {
		t.Strength = InsufficientData
	}
	t.SMA20Slope = smaSlope(s, 20)
	t.SMA50Slope = smaSlope(s, 50)
	return t
}

// smaSlope compares the SMA's current value with its value slopeLookback bars
// earlier: RISING if greater, FALLING otherwise, empty on short windows.
func smaSlope(s model.BarSeries, period int) string {
	current, err := indicator.SMA(s, period)
	if err != nil {
		return ""
	}
	previous, err := indicator.SMA(s[:len(s)-slopeLookback], period)
	if err != nil {
		return ""
	}
	if current > previous {
		return "RISING"
	}
	return "FALLING"
}
