package pattern

import (
	"sort"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// levelCount is how many support/resistance levels are reported.
const levelCount = 3

// Levels picks the strongest recent levels from the window: resistance is the
// top three highs (highest first), support the bottom three lows (lowest first).
func Levels(s model.BarSeries) model.SupportResistance {
	highs := make([]float64, 0, len(s))
	lows := make([]float64, 0, len(s))
	for _, b := range s {
		highs = append(highs, b.High)
		lows = append(lows, b.Low)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(highs)))
	sort.Float64s(lows)

	return model.SupportResistance{
		Resistance: topN(highs, levelCount),
		Support:    topN(lows, levelCount),
	}
}

func topN(values []float64, n int) []float64 {
	if len(values) < n {
		n = len(values)
	}
	out := make([]float64, n)
	copy(out, values[:n])
	return out
}
