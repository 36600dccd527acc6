package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

func barsFromCloses(closes ...float64) model.BarSeries {
	s := make(model.BarSeries, len(closes))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s[i] = model.DailyBar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return s
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{
			name:   "known five bar average",
			closes: []float64{100, 102, 101, 105, 104},
			period: 5,
			want:   102.4,
		},
		{
			name:   "uses only the last period closes",
			closes: []float64{1, 1, 1, 100, 102, 101, 105, 104},
			period: 5,
			want:   102.4,
		},
		{
			name:    "insufficient data",
			closes:  []float64{100, 102},
			period:  5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SMA(barsFromCloses(tt.closes...), tt.period)
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientData) {
					t.Fatalf("SMA() error = %v, want ErrInsufficientData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SMA() unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("SMA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEMA(t *testing.T) {
	// Seed is SMA(2) of the first two closes (15), then one smoothing step
	// with factor 2/3: 15 + (30-15)*2/3 = 25.
	got, err := EMA(barsFromCloses(10, 20, 30), 2)
	if err != nil {
		t.Fatalf("EMA() unexpected error: %v", err)
	}
	if !almostEqual(got, 25, 1e-9) {
		t.Errorf("EMA() = %v, want 25", got)
	}

	// Exactly period bars: the EMA is the seeding SMA.
	got, err = EMA(barsFromCloses(1, 2, 3), 3)
	if err != nil {
		t.Fatalf("EMA() unexpected error: %v", err)
	}
	if !almostEqual(got, 2, 1e-9) {
		t.Errorf("EMA() = %v, want 2", got)
	}

	if _, err := EMA(barsFromCloses(1, 2), 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("EMA() error = %v, want ErrInsufficientData", err)
	}
}

func TestRSIBounds(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
	}{
		{
			name:   "steady uptrend",
			closes: []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112, 113, 114, 115},
		},
		{
			name:   "steady downtrend",
			closes: []float64{115, 114, 113, 112, 111, 110, 109, 108, 107, 106, 105, 104, 103, 102, 101, 100},
		},
		{
			name:   "choppy",
			closes: []float64{100, 103, 99, 104, 98, 105, 97, 106, 96, 107, 95, 108, 94, 109, 93, 110, 92},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := RSI(barsFromCloses(tt.closes...), 14)
			if err != nil {
				t.Fatalf("RSI() unexpected error: %v", err)
			}
			if rsi < 0 || rsi > 100 {
				t.Errorf("RSI() = %v, want within [0,100]", rsi)
			}
		})
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := RSI(barsFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("RSI() unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("RSI() = %v for all-gain series, want 100", rsi)
	}
}

func TestRSIInsufficientData(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 100
	}
	if _, err := RSI(barsFromCloses(closes...), 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("RSI() error = %v, want ErrInsufficientData", err)
	}
}

func TestMACD(t *testing.T) {
	constant := make([]float64, 30)
	for i := range constant {
		constant[i] = 100
	}
	got, err := MACD(barsFromCloses(constant...), DefaultMACDFastPeriod, DefaultMACDSlowPeriod)
	if err != nil {
		t.Fatalf("MACD() unexpected error: %v", err)
	}
	if !almostEqual(got, 0, 1e-9) {
		t.Errorf("MACD() = %v for constant series, want 0", got)
	}

	if _, err := MACD(barsFromCloses(constant[:25]...), DefaultMACDFastPeriod, DefaultMACDSlowPeriod); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("MACD() error = %v for 25 bars, want ErrInsufficientData", err)
	}
}

func TestBollinger(t *testing.T) {
	constant := make([]float64, 14)
	for i := range constant {
		constant[i] = 100
	}
	bands, err := Bollinger(barsFromCloses(constant...), DefaultBollingerPeriod, DefaultBollingerStdDev)
	if err != nil {
		t.Fatalf("Bollinger() unexpected error: %v", err)
	}
	if bands.Upper != 100 || bands.Middle != 100 || bands.Lower != 100 {
		t.Errorf("Bollinger() = %+v for constant series, want all bands at 100", bands)
	}

	varying := []float64{100, 102, 101, 105, 104, 103, 106, 102, 101, 107, 108, 104, 103, 109}
	bands, err = Bollinger(barsFromCloses(varying...), DefaultBollingerPeriod, DefaultBollingerStdDev)
	if err != nil {
		t.Fatalf("Bollinger() unexpected error: %v", err)
	}
	sma, _ := SMA(barsFromCloses(varying...), DefaultBollingerPeriod)
	if !almostEqual(bands.Middle, sma, 1e-9) {
		t.Errorf("Bollinger() middle = %v, want SMA %v", bands.Middle, sma)
	}
	if !(bands.Upper > bands.Middle && bands.Middle > bands.Lower) {
		t.Errorf("Bollinger() = %+v, want upper > middle > lower", bands)
	}
}

func TestStochastic(t *testing.T) {
	// Close at the top of the range in every window.
	s := make(model.BarSeries, 16)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range s {
		high := 100 + float64(i)
		s[i] = model.DailyBar{Date: base.AddDate(0, 0, i), Open: high - 1, High: high, Low: high - 2, Close: high}
	}
	osc, err := Stochastic(s, DefaultStochasticK, DefaultStochasticD)
	if err != nil {
		t.Fatalf("Stochastic() unexpected error: %v", err)
	}
	if !almostEqual(osc.K, 100, 1e-9) {
		t.Errorf("Stochastic() K = %v, want 100", osc.K)
	}
	if osc.D < 0 || osc.D > 100 {
		t.Errorf("Stochastic() D = %v, want within [0,100]", osc.D)
	}

	// Flat range defaults to the middle of the scale.
	flat := barsFromCloses(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	for i := range flat {
		flat[i].High = 100
		flat[i].Low = 100
	}
	osc, err = Stochastic(flat, DefaultStochasticK, DefaultStochasticD)
	if err != nil {
		t.Fatalf("Stochastic() unexpected error: %v", err)
	}
	if !almostEqual(osc.K, 50, 1e-9) {
		t.Errorf("Stochastic() K = %v for flat range, want 50", osc.K)
	}

	if _, err := Stochastic(barsFromCloses(1, 2, 3), DefaultStochasticK, DefaultStochasticD); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Stochastic() error = %v, want ErrInsufficientData", err)
	}
}
