package pattern

import (
	"fmt"
	"time"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Analyze runs the full pattern scan over the series and assembles the
// advanced-analysis report. Individual sections degrade to their own
// insufficient-data markers instead of failing the whole report.
func Analyze(symbol string, s model.BarSeries, now time.Time) model.PatternReport {
	report := model.PatternReport{
		Symbol:            symbol,
		DataPoints:        s.Len(),
		Period:            fmt.Sprintf("%d days", s.Len()),
		AnalysisTimestamp: now,
	}
	if s.Len() == 0 {
		report.Err = "no historical data available"
		return report
	}

	report.PricePatterns = model.PricePatterns{
		MACDTrend:  MACDTrend(s),
		Momentum:   Momentum(s),
		Volatility: Volatility(s),
		Gaps:       Gaps(s),
	}
	report.VolumePatterns = model.VolumePatterns{
		VolumeTrend:         VolumeTrend(s),
		VolumePriceRelation: VolumePriceRelation(s),
	}
	report.Candlesticks = model.CandlestickPatterns{
		Doji:      Doji(s),
		Hammer:    Hammer(s),
		Engulfing: Engulfing(s),
	}
	report.Trend = Trend(s)
	report.SupportResistance = Levels(s)
	report.Sentiment = Sentiment(s)
	report.Risk = Risk(s)
	return report
}
