package pattern

import (
	"github.com/shiv159/TradeWiseAi/internal/indicator"
	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Risk computes the 20-period close volatility with its classification, the
// average true range and the maximum drawdown of the full window.
func Risk(s model.BarSeries) model.RiskReport {
	var report model.RiskReport
	if sd, err := indicator.StdDev(s, indicator.DefaultVolatilityPeriod); err == nil {
		report.Volatility = model.Float(sd)
		report.Level = riskLevel(sd)
	} else {
		report.Level = InsufficientData
	}
	if atr, err := indicator.ATR(s, indicator.DefaultATRPeriod); err == nil {
		report.ATR = model.Float(atr)
	}
	report.MaxDrawdownPct = MaxDrawdown(s)
	return report
}

func riskLevel(volatility float64) string {
	switch {
	case volatility > 0.05:
		return "HIGH_RISK"
	case volatility > 0.03:
		return "MODERATE_RISK"
	default:
		return "LOW_RISK"
	}
}

// MaxDrawdown is the largest peak-to-trough percentage decline of the close
// series, tracked with a running peak. Zero for monotonically non-decreasing
// series and for empty input.
func MaxDrawdown(s model.BarSeries) float64 {
	if len(s) == 0 {
		return 0
	}

	peak := s[0].Close
	var maxDrawdown float64
	for i := 1; i < len(s); i++ {
		current := s[i].Close
		if current > peak {
			peak = current
			continue
		}
		if peak > 0 {
			if dd := (peak - current) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown * 100
}
