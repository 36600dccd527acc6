// Package indicator provides pure, stateless technical-indicator functions
// over a bar series. Every function requires a minimum bar count equal to its
// period and returns ErrInsufficientData below it instead of a misleading
// numeric default.
package indicator

import (
	"errors"
	"math"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// ErrInsufficientData is returned when a series holds fewer bars than an
// indicator's period requires.
var ErrInsufficientData = errors.New("indicator: insufficient data for period")

// Default periods used by the analysis paths. They are fixed, not
// user-tunable.
const (
	DefaultRSIPeriod        = 14
	DefaultSMAPeriod        = 14
	DefaultMACDFastPeriod   = 12
	DefaultMACDSlowPeriod   = 26
	DefaultBollingerPeriod  = 14
	DefaultBollingerStdDev  = 2.0
	DefaultStochasticK      = 14
	DefaultStochasticD      = 3
	DefaultADXPeriod        = 14
	DefaultATRPeriod        = 14
	DefaultVolatilityPeriod = 20
)

// SMA is the arithmetic mean of the last period closes.
func SMA(s model.BarSeries, period int) (float64, error) {
	if period <= 0 || len(s) < period {
		return 0, ErrInsufficientData
	}
	var sum float64
	for i := len(s) - period; i < len(s); i++ {
		sum += s[i].Close
	}
	return sum / float64(period), nil
}

// EMA seeds with the SMA of the first period closes, then applies exponential
// smoothing with factor 2/(period+1) over the remainder of the series.
func EMA(s model.BarSeries, period int) (float64, error) {
	if period <= 0 || len(s) < period {
		return 0, ErrInsufficientData
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += s[i].Close
	}
	ema := sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(s); i++ {
		ema = (s[i].Close-ema)*multiplier + ema
	}
	return ema, nil
}

// RSI implements Wilder's relative strength index over close-to-close deltas.
// The result is always within [0,100]. Requires period+1 bars.
func RSI(s model.BarSeries, period int) (float64, error) {
	if period <= 0 || len(s) < period+1 {
		return 0, ErrInsufficientData
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := s[i].Close - s[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing for the rest of the series.
	for i := period + 1; i < len(s); i++ {
		change := s[i].Close - s[i-1].Close
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs)), nil
}

// MACD is the difference of the fast and slow EMAs. Requires at least
// slowPeriod bars.
func MACD(s model.BarSeries, fastPeriod, slowPeriod int) (float64, error) {
	if len(s) < slowPeriod {
		return 0, ErrInsufficientData
	}
	fast, err := EMA(s, fastPeriod)
	if err != nil {
		return 0, err
	}
	slow, err := EMA(s, slowPeriod)
	if err != nil {
		return 0, err
	}
	return fast - slow, nil
}

// Bands holds a Bollinger Bands computation.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes middle = SMA(period) and upper/lower at
// middle +/- stdDev * rolling standard deviation of closes.
func Bollinger(s model.BarSeries, period int, stdDev float64) (Bands, error) {
	middle, err := SMA(s, period)
	if err != nil {
		return Bands{}, err
	}
	sd, err := StdDev(s, period)
	if err != nil {
		return Bands{}, err
	}
	return Bands{
		Upper:  middle + sd*stdDev,
		Middle: middle,
		Lower:  middle - sd*stdDev,
	}, nil
}

// StdDev is the population standard deviation of the last period closes.
func StdDev(s model.BarSeries, period int) (float64, error) {
	if period <= 0 || len(s) < period {
		return 0, ErrInsufficientData
	}
	var sum float64
	for i := len(s) - period; i < len(s); i++ {
		sum += s[i].Close
	}
	mean := sum / float64(period)

	var variance float64
	for i := len(s) - period; i < len(s); i++ {
		variance += math.Pow(s[i].Close-mean, 2)
	}
	return math.Sqrt(variance / float64(period)), nil
}

// Oscillator holds a Stochastic Oscillator computation.
type Oscillator struct {
	K float64
	D float64
}

// Stochastic computes %K over the kPeriod high/low range and %D as the
// dPeriod simple average of the trailing %K values. Requires kPeriod bars;
// %D averages only the windows that fully fit in the series.
func Stochastic(s model.BarSeries, kPeriod, dPeriod int) (Oscillator, error) {
	if kPeriod <= 0 || len(s) < kPeriod {
		return Oscillator{}, ErrInsufficientData
	}

	k := stochasticKAt(s, len(s)-1, kPeriod)

	var kSum float64
	var count int
	for i := len(s) - dPeriod; i < len(s); i++ {
		if i+1 < kPeriod {
			continue
		}
		kSum += stochasticKAt(s, i, kPeriod)
		count++
	}
	d := k
	if count > 0 {
		d = kSum / float64(count)
	}
	return Oscillator{K: k, D: d}, nil
}

// stochasticKAt computes %K for the window ending at index idx.
// The caller guarantees idx+1 >= kPeriod.
func stochasticKAt(s model.BarSeries, idx, kPeriod int) float64 {
	highest := s[idx-kPeriod+1].High
	lowest := s[idx-kPeriod+1].Low
	for i := idx - kPeriod + 2; i <= idx; i++ {
		if s[i].High > highest {
			highest = s[i].High
		}
		if s[i].Low < lowest {
			lowest = s[i].Low
		}
	}
	if highest-lowest <= 0 {
		// Flat range, middle of the scale.
		return 50.0
	}
	return (s[idx].Close - lowest) / (highest - lowest) * 100
}
