package pattern

import "fmt"

// Signal derives the quick-summary trading signal from RSI alone.
func Signal(rsi float64) string {
	switch {
	case rsi > 70:
		return fmt.Sprintf("SELL - Overbought (RSI: %.1f)", rsi)
	case rsi < 30:
		return fmt.Sprintf("BUY - Oversold (RSI: %.1f)", rsi)
	case rsi > 50:
		return "HOLD - Weak bullish momentum"
	default:
		return "HOLD - Weak bearish momentum"
	}
}

// TrendLabel classifies the market state for the quick summary. Extreme RSI
// readings override the moving-average comparison; otherwise the close is
// compared to the SMA with a 2% band.
func TrendLabel(rsi, close, sma float64) string {
	switch {
	case rsi > 70:
		return "OVERBOUGHT"
	case rsi < 30:
		return "OVERSOLD"
	case close > sma*1.02:
		return "STRONG_BULLISH"
	case close > sma:
		return "BULLISH"
	case close < sma*0.98:
		return "STRONG_BEARISH"
	case close < sma:
		return "BEARISH"
	default:
		return "NEUTRAL"
	}
}
