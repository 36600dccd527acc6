package model

import (
	"fmt"
	"time"
)

// Where a document came from on a given request.
const (
	SourceCache    = "cache"
	SourceProvider = "provider"
)

// QuoteResult is the response for a current-price request. Err is set instead
// of the price fields when the provider failed or returned no quote section;
// callers always get a value, never a panic or a raw provider error.
type QuoteResult struct {
	Symbol           string    `json:"symbol"`
	Price            float64   `json:"price"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Volume           int64     `json:"volume"`
	AsOf             time.Time `json:"as_of"`
	Source           string    `json:"source"`
	CacheWriteFailed bool      `json:"cache_write_failed,omitempty"`
	Err              string    `json:"error,omitempty"`
}

// String renders the human-readable quote line used by text clients.
func (q QuoteResult) String() string {
	if q.Err != "" {
		return fmt.Sprintf("Error fetching current price for %s: %s", q.Symbol, q.Err)
	}
	return fmt.Sprintf("Current price for %s: $%.2f", q.Symbol, q.Price)
}

// IndicatorSet bundles the indicator values computed for a historical window.
// Nil fields mean the window had too few bars for that indicator; zero is a
// real computed value, not a placeholder.
type IndicatorSet struct {
	RSI            *float64 `json:"rsi,omitempty"`
	SMA14          *float64 `json:"sma14,omitempty"`
	SMA50          *float64 `json:"sma50,omitempty"`
	EMA12          *float64 `json:"ema12,omitempty"`
	EMA26          *float64 `json:"ema26,omitempty"`
	MACD           *float64 `json:"macd,omitempty"`
	BollingerUpper *float64 `json:"bollinger_upper,omitempty"`
	BollingerLower *float64 `json:"bollinger_lower,omitempty"`
	StochasticK    *float64 `json:"stochastic_k,omitempty"`
	StochasticD    *float64 `json:"stochastic_d,omitempty"`
}

// HistoricalAnalysis is the response for a historical-series request.
type HistoricalAnalysis struct {
	Symbol          string       `json:"symbol"`
	Bars            []DailyBar   `json:"historical_data"`
	Indicators      IndicatorSet `json:"indicators"`
	Period          string       `json:"period"`
	TotalDataPoints int          `json:"total_data_points"`
	Err             string       `json:"error,omitempty"`
}

// TechnicalSummary is the quick-analysis response: RSI-14, SMA-14 and the
// derived trend/signal labels over the cached historical series.
type TechnicalSummary struct {
	Symbol       string    `json:"symbol"`
	CurrentPrice float64   `json:"current_price"`
	RSI          *float64  `json:"rsi,omitempty"`
	SMA          *float64  `json:"sma,omitempty"`
	Trend        string    `json:"trend"`
	Signal       string    `json:"signal"`
	DataPoints   int       `json:"data_points"`
	Timestamp    time.Time `json:"analysis_date"`
	Err          string    `json:"error,omitempty"`
}

// GapEvent is an opening gap beyond the reporting threshold.
type GapEvent struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"`
}

// PricePatterns covers momentum, volatility and gap behavior of the window.
type PricePatterns struct {
	MACDTrend  string     `json:"macd_trend"`
	Momentum   string     `json:"momentum"`
	Volatility string     `json:"volatility"`
	Gaps       []GapEvent `json:"gaps,omitempty"`
}

// VolumePatterns covers volume behavior relative to its recent average
// and to the price move.
type VolumePatterns struct {
	VolumeTrend         string `json:"volume_trend"`
	VolumePriceRelation string `json:"volume_price_relation"`
}

// PatternHit marks a single-bar candlestick pattern occurrence.
type PatternHit struct {
	Date time.Time `json:"date"`
}

// EngulfingHit marks a two-bar engulfing occurrence. A pair is flagged
// bullish or bearish, never both.
type EngulfingHit struct {
	Date    time.Time `json:"date"`
	Bullish bool      `json:"bullish"`
}

// CandlestickPatterns lists pattern occurrences over the recent scan window.
type CandlestickPatterns struct {
	Doji      []PatternHit   `json:"doji,omitempty"`
	Hammer    []PatternHit   `json:"hammer,omitempty"`
	Engulfing []EngulfingHit `json:"engulfing,omitempty"`
}

// TrendAnalysis reports ADX-based trend strength and moving-average slopes.
// Empty slope strings mean the window was too short for that average.
type TrendAnalysis struct {
	ADX        *float64 `json:"adx,omitempty"`
	Strength   string   `json:"trend_strength"`
	SMA20Slope string   `json:"sma20_slope,omitempty"`
	SMA50Slope string   `json:"sma50_slope,omitempty"`
}

// SupportResistance holds the strongest recent levels, resistance sorted
// highest first and support lowest first.
type SupportResistance struct {
	Resistance []float64 `json:"resistance"`
	Support    []float64 `json:"support"`
}

// SentimentReport aggregates bullish/bearish indicator votes into a score
// in [0,1] and a label.
type SentimentReport struct {
	BullishSignals int     `json:"bullish_signals"`
	BearishSignals int     `json:"bearish_signals"`
	TotalSignals   int     `json:"total_signals"`
	Score          float64 `json:"sentiment_score"`
	Label          string  `json:"sentiment"`
}

// RiskReport holds the 20-period close volatility, its classification, the
// 14-period average true range and the largest peak-to-trough decline of the
// full window, in percent.
type RiskReport struct {
	Volatility     *float64 `json:"volatility,omitempty"`
	Level          string   `json:"risk_level"`
	ATR            *float64 `json:"atr,omitempty"`
	MaxDrawdownPct float64  `json:"max_drawdown"`
}

// PatternReport is the full advanced-analysis response.
type PatternReport struct {
	Symbol            string              `json:"symbol"`
	DataPoints        int                 `json:"data_points"`
	Period            string              `json:"period"`
	AnalysisTimestamp time.Time           `json:"analysis_timestamp"`
	PricePatterns     PricePatterns       `json:"price_patterns"`
	VolumePatterns    VolumePatterns      `json:"volume_patterns"`
	Candlesticks      CandlestickPatterns `json:"candlestick_patterns"`
	Trend             TrendAnalysis       `json:"trend_analysis"`
	SupportResistance SupportResistance   `json:"support_resistance"`
	Sentiment         SentimentReport     `json:"market_sentiment"`
	Risk              RiskReport          `json:"risk_metrics"`
	Err               string              `json:"error,omitempty"`
}

// Float is a convenience for building optional indicator fields.
func Float(v float64) *float64 { return &v }
