package pattern

import (
	"github.com/shiv159/TradeWiseAi/internal/indicator"
	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Sentiment tallies bullish and bearish indicator votes into a score in [0,1].
// RSI above 50 votes bullish; a positive MACD votes bullish but only joins
// the tally when the series carries at least the slow period of bars.
func Sentiment(s model.BarSeries) model.SentimentReport {
	var report model.SentimentReport

	if rsi, err := indicator.RSI(s, indicator.DefaultRSIPeriod); err == nil {
		if rsi > 50 {
			report.BullishSignals++
		} else {
			report.BearishSignals++
		}
		report.TotalSignals++
	}

	if macd, err := indicator.MACD(s, indicator.DefaultMACDFastPeriod, indicator.DefaultMACDSlowPeriod); err == nil {
		if macd > 0 {
			report.BullishSignals++
		} else {
			report.BearishSignals++
		}
		report.TotalSignals++
	}

	if report.TotalSignals == 0 {
		report.Label = InsufficientData
		return report
	}

	report.Score = float64(report.BullishSignals) / float64(report.TotalSignals)
	report.Label = sentimentLabel(report.Score)
	return report
}

func sentimentLabel(score float64) string {
	switch {
	case score > 0.7:
		return "VERY_BULLISH"
	case score > 0.6:
		return "BULLISH"
	case score > 0.4:
		return "NEUTRAL"
	case score > 0.3:
		return "BEARISH"
	default:
		return "VERY_BEARISH"
	}
}
