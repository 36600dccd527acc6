package pattern

import "github.com/shiv159/TradeWiseAi/internal/model"

// volumeAvgPeriod is the lookback for the average-volume comparison.
const volumeAvgPeriod = 10

// VolumeTrend compares the latest volume with its 10-bar average.
func VolumeTrend(s model.BarSeries) string {
	if len(s) < volumeAvgPeriod {
		return InsufficientData
	}

	var sum float64
	for i := len(s) - volumeAvgPeriod; i < len(s); i++ {
		sum += float64(s[i].Volume)
	}
	avg := sum / float64(volumeAvgPeriod)
	if avg == 0 {
		return InsufficientData
	}

	current := float64(s[len(s)-1].Volume)
	switch {
	case current > avg*1.5:
		return "HIGH_VOLUME"
	case current > avg*1.2:
		return "ABOVE_AVERAGE"
	case current < avg*0.8:
		return "BELOW_AVERAGE"
	default:
		return "AVERAGE"
	}
}

// VolumePriceRelation reads the latest bar-over-bar price and volume changes
// together: rising volume confirms the price move, falling volume weakens it.
func VolumePriceRelation(s model.BarSeries) string {
	if len(s) < 2 {
		return InsufficientData
	}

	last, prev := s[len(s)-1], s[len(s)-2]
	priceChange := last.Close - prev.Close
	volumeChange := last.Volume - prev.Volume

	switch {
	case priceChange > 0 && volumeChange > 0:
		return "BULLISH_CONFIRMATION"
	case priceChange < 0 && volumeChange > 0:
		return "BEARISH_CONFIRMATION"
	case priceChange > 0 && volumeChange < 0:
		return "WEAK_BULLISH"
	case priceChange < 0 && volumeChange < 0:
		return "WEAK_BEARISH"
	default:
		return "NEUTRAL"
	}
}
