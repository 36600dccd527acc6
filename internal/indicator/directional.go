package indicator

import (
	"math"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Directional holds an ADX computation with its directional components.
type Directional struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX computes the Average Directional Index with Wilder smoothing of the
// directional movements and true range. The index stays within [0,100].
// Requires 2*period bars for a meaningful smoothed value.
func ADX(s model.BarSeries, period int) (Directional, error) {
	if period <= 0 || len(s) < period*2 {
		return Directional{}, ErrInsufficientData
	}

	plusDM := make([]float64, 0, len(s)-1)
	minusDM := make([]float64, 0, len(s)-1)
	trueRange := make([]float64, 0, len(s)-1)

	for i := 1; i < len(s); i++ {
		upMove := s[i].High - s[i-1].High
		downMove := s[i-1].Low - s[i].Low

		pDM := 0.0
		if upMove > downMove && upMove > 0 {
			pDM = upMove
		}
		plusDM = append(plusDM, pDM)

		mDM := 0.0
		if downMove > upMove && downMove > 0 {
			mDM = downMove
		}
		minusDM = append(minusDM, mDM)

		tr1 := s[i].High - s[i].Low
		tr2 := math.Abs(s[i].High - s[i-1].Close)
		tr3 := math.Abs(s[i].Low - s[i-1].Close)
		trueRange = append(trueRange, math.Max(tr1, math.Max(tr2, tr3)))
	}

	var smoothedPlusDM, smoothedMinusDM, smoothedTR float64
	for i := 0; i < period; i++ {
		smoothedPlusDM += plusDM[i]
		smoothedMinusDM += minusDM[i]
		smoothedTR += trueRange[i]
	}

	plusDI := directionalIndex(smoothedPlusDM, smoothedTR)
	minusDI := directionalIndex(smoothedMinusDM, smoothedTR)
	adx := dx(plusDI, minusDI)

	for i := period; i < len(trueRange); i++ {
		smoothedPlusDM = smoothedPlusDM - (smoothedPlusDM / float64(period)) + plusDM[i]
		smoothedMinusDM = smoothedMinusDM - (smoothedMinusDM / float64(period)) + minusDM[i]
		smoothedTR = smoothedTR - (smoothedTR / float64(period)) + trueRange[i]

		plusDI = directionalIndex(smoothedPlusDM, smoothedTR)
		minusDI = directionalIndex(smoothedMinusDM, smoothedTR)

		// ADX is the Wilder-smoothed DX.
		adx = ((float64(period-1) * adx) + dx(plusDI, minusDI)) / float64(period)
	}

	return Directional{ADX: clamp(adx, 0, 100), PlusDI: plusDI, MinusDI: minusDI}, nil
}

// ATR is the simple average of the true range over the last period bars.
// Requires period+1 bars since the true range needs a previous close.
func ATR(s model.BarSeries, period int) (float64, error) {
	if period <= 0 || len(s) < period+1 {
		return 0, ErrInsufficientData
	}

	var sum float64
	for i := len(s) - period; i < len(s); i++ {
		highLow := s[i].High - s[i].Low
		highPrevClose := math.Abs(s[i].High - s[i-1].Close)
		lowPrevClose := math.Abs(s[i].Low - s[i-1].Close)
		sum += math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
	}
	return sum / float64(period), nil
}

func directionalIndex(smoothedDM, smoothedTR float64) float64 {
	if smoothedTR == 0 {
		return 0
	}
	return (smoothedDM / smoothedTR) * 100
}

func dx(plusDI, minusDI float64) float64 {
	if plusDI+minusDI == 0 {
		return 0
	}
	return math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
