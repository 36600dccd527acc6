package pattern

import (
	"math"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Doji flags bars in the scan window whose body is under 10% of the
// high-to-low range.
func Doji(s model.BarSeries) []model.PatternHit {
	var hits []model.PatternHit
	for i := windowStart(len(s), candleWindow, 0); i < len(s); i++ {
		b := s[i]
		if b.Body() < b.Range()*0.1 {
			hits = append(hits, model.PatternHit{Date: b.Date})
		}
	}
	return hits
}

// Hammer flags bars whose lower shadow exceeds twice the body while the upper
// shadow stays under half of it.
func Hammer(s model.BarSeries) []model.PatternHit {
	var hits []model.PatternHit
	for i := windowStart(len(s), candleWindow, 0); i < len(s); i++ {
		b := s[i]
		body := b.Body()
		lowerShadow := math.Min(b.Open, b.Close) - b.Low
		upperShadow := b.High - math.Max(b.Open, b.Close)
		if lowerShadow > body*2 && upperShadow < body*0.5 {
			hits = append(hits, model.PatternHit{Date: b.Date})
		}
	}
	return hits
}

// Engulfing flags two-bar engulfing pairs in the scan window. Bullish when a
// bearish bar is followed by a bullish bar whose body strictly contains the
// previous body; bearish is the mirror. The conditions are mutually
// exclusive, so a pair is never flagged both ways.
func Engulfing(s model.BarSeries) []model.EngulfingHit {
	var hits []model.EngulfingHit
	for i := windowStart(len(s), candleWindow, 1); i < len(s); i++ {
		current, previous := s[i], s[i-1]

		bullish := !previous.Bullish() && current.Bullish() &&
			current.Open < previous.Close &&
			current.Close > previous.Open

		bearish := previous.Bullish() && !current.Bullish() &&
			current.Open > previous.Close &&
			current.Close < previous.Open

		if bullish {
			hits = append(hits, model.EngulfingHit{Date: current.Date, Bullish: true})
		} else if bearish {
			hits = append(hits, model.EngulfingHit{Date: current.Date, Bullish: false})
		}
	}
	return hits
}

// windowStart returns the first index of the last window bars, keeping at
// least min bars of history before it.
func windowStart(n, window, min int) int {
	start := n - window
	if start < min {
		start = min
	}
	return start
}
