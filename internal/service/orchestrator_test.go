package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiv159/TradeWiseAi/internal/model"
	"github.com/shiv159/TradeWiseAi/internal/parser"
	"github.com/shiv159/TradeWiseAi/internal/storage"
	"github.com/shiv159/TradeWiseAi/internal/storage/memory"
)

var quotePayload = []byte(`{
	"Global Quote": {
		"01. symbol": "AAPL",
		"02. open": "149.00",
		"03. high": "151.00",
		"04. low": "148.00",
		"05. price": "150.00",
		"06. volume": "1000000"
	}
}`)

func historicalPayload(days int) []byte {
	var b strings.Builder
	b.WriteString(`{"Time Series (Daily)": {`)
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		price := 100.0 + float64(i)
		fmt.Fprintf(&b, `"%s": {"1. open": "%.2f", "2. high": "%.2f", "3. low": "%.2f", "4. close": "%.2f", "5. volume": "1000"}`,
			base.AddDate(0, 0, i).Format("2006-01-02"), price, price+1, price-1, price)
	}
	b.WriteString("}}")
	return []byte(b.String())
}

type stubProvider struct {
	quotePayload  []byte
	quoteErr      error
	seriesPayload []byte
	seriesErr     error
	quoteCalls    int32
	seriesCalls   int32
	// release, when set, blocks every fetch until closed.
	release chan struct{}
}

func (p *stubProvider) FetchQuote(_ context.Context, _ string) ([]byte, error) {
	atomic.AddInt32(&p.quoteCalls, 1)
	if p.release != nil {
		<-p.release
	}
	return p.quotePayload, p.quoteErr
}

func (p *stubProvider) FetchDailySeries(_ context.Context, _ string) ([]byte, error) {
	atomic.AddInt32(&p.seriesCalls, 1)
	if p.release != nil {
		<-p.release
	}
	return p.seriesPayload, p.seriesErr
}

// failingStore wraps a real store but rejects writes.
type failingStore struct {
	storage.DocumentStore
}

func (failingStore) Upsert(context.Context, *model.StockDocument) error {
	return errors.New("disk full")
}

func newOrchestrator(store storage.DocumentStore, provider MarketDataProvider, cacheEnabled bool) *Orchestrator {
	return New(store, provider, parser.New(), Config{
		CacheEnabled: cacheEnabled,
		TTL:          60 * time.Minute,
		LookbackDays: 30,
	})
}

func TestCurrentPriceCacheDisabled(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{quotePayload: quotePayload}
	o := newOrchestrator(store, provider, false)

	result := o.CurrentPrice(context.Background(), "AAPL")

	require.Empty(t, result.Err)
	assert.Equal(t, 150.00, result.Price)
	assert.Contains(t, result.String(), "150.00")
	assert.Equal(t, model.SourceProvider, result.Source)

	exists, err := store.Exists(context.Background(), "AAPL", model.KindCurrent)
	require.NoError(t, err)
	assert.False(t, exists, "cache-disabled requests must not write the store")
}

func TestCurrentPriceProviderError(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{quoteErr: errors.New("connection refused")}
	o := newOrchestrator(store, provider, true)

	result := o.CurrentPrice(context.Background(), "AAPL")

	assert.Contains(t, result.Err, "connection refused")
	assert.Contains(t, result.String(), "Error fetching current price for AAPL")

	exists, err := store.Exists(context.Background(), "AAPL", model.KindCurrent)
	require.NoError(t, err)
	assert.False(t, exists, "a failed fetch must not persist anything")
}

func TestCurrentPriceFreshCacheHit(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{quotePayload: quotePayload}
	o := newOrchestrator(store, provider, true)
	o.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	cached := &model.StockDocument{
		Symbol: "AAPL",
		Kind:   model.KindCurrent,
		Series: model.BarSeries{{
			Date:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Close: 149.50,
		}},
		LastUpdated: o.now().Add(-10 * time.Minute),
	}
	require.NoError(t, store.Upsert(context.Background(), cached))

	result := o.CurrentPrice(context.Background(), "AAPL")

	assert.Equal(t, 149.50, result.Price)
	assert.Equal(t, model.SourceCache, result.Source)
	assert.Zero(t, atomic.LoadInt32(&provider.quoteCalls), "a fresh hit must not call the provider")
}

func TestCurrentPriceStaleCacheRefreshes(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{quotePayload: quotePayload}
	o := newOrchestrator(store, provider, true)
	o.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	stale := &model.StockDocument{
		Symbol:      "AAPL",
		Kind:        model.KindCurrent,
		Series:      model.BarSeries{{Close: 120.00}},
		LastUpdated: o.now().Add(-3 * time.Hour),
	}
	require.NoError(t, store.Upsert(context.Background(), stale))

	result := o.CurrentPrice(context.Background(), "AAPL")

	assert.Equal(t, 150.00, result.Price, "stale hit must serve refetched data")
	assert.Equal(t, model.SourceProvider, result.Source)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.quoteCalls))

	replaced, err := store.Find(context.Background(), "AAPL", model.KindCurrent)
	require.NoError(t, err)
	require.Len(t, replaced.Series, 1, "refresh replaces the document instead of appending")
	assert.Equal(t, 150.00, replaced.Series[0].Close)
}

func TestCurrentPricePersistFailureStillServes(t *testing.T) {
	provider := &stubProvider{quotePayload: quotePayload}
	o := newOrchestrator(failingStore{memory.New()}, provider, true)

	result := o.CurrentPrice(context.Background(), "AAPL")

	require.Empty(t, result.Err)
	assert.Equal(t, 150.00, result.Price, "fetched data survives a failed cache write")
	assert.True(t, result.CacheWriteFailed)
}

func TestCurrentPriceEmptySeriesNotPersisted(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{quotePayload: []byte(`{"Note": "rate limited"}`)}
	o := newOrchestrator(store, provider, true)

	result := o.CurrentPrice(context.Background(), "AAPL")

	assert.Equal(t, "no quote data available", result.Err)

	exists, err := store.Exists(context.Background(), "AAPL", model.KindCurrent)
	require.NoError(t, err)
	assert.False(t, exists, "an empty series must not become a sticky cached miss")
}

func TestCurrentPriceStampedeSharesOneFetch(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{
		quotePayload: quotePayload,
		release:      make(chan struct{}),
	}
	o := newOrchestrator(store, provider, true)

	const callers = 8
	results := make([]model.QuoteResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.CurrentPrice(context.Background(), "AAPL")
		}(i)
	}

	// Let every caller reach the in-flight fetch before it completes.
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.quoteCalls),
		"concurrent misses for one key must share a single provider call")
	for i, result := range results {
		require.Emptyf(t, result.Err, "caller %d got an error", i)
		assert.Equalf(t, 150.00, result.Price, "caller %d", i)
	}
}

func TestRefreshSurvivesCallerCancellation(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{
		quotePayload: quotePayload,
		release:      make(chan struct{}),
	}
	o := newOrchestrator(store, provider, true)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
		close(provider.release)
	}()

	result := o.CurrentPrice(ctx, "AAPL")

	require.Empty(t, result.Err, "cancelling one caller must not fail the shared fetch")
	assert.Equal(t, 150.00, result.Price)
	assert.False(t, result.CacheWriteFailed)

	exists, err := store.Exists(context.Background(), "AAPL", model.KindCurrent)
	require.NoError(t, err)
	assert.True(t, exists, "the completed fetch is still persisted")
}

func TestHistoricalAnalysis(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{seriesPayload: historicalPayload(40)}
	o := newOrchestrator(store, provider, true)

	analysis := o.HistoricalAnalysis(context.Background(), "RELIANCE", 30)

	require.Empty(t, analysis.Err)
	assert.Equal(t, 30, analysis.TotalDataPoints, "the window is capped at the requested days")
	assert.Equal(t, "30 days", analysis.Period)
	require.NotNil(t, analysis.Indicators.RSI)
	require.NotNil(t, analysis.Indicators.SMA14)
	assert.Nil(t, analysis.Indicators.SMA50, "a 30-bar window cannot carry SMA-50")

	exists, err := store.Exists(context.Background(), "RELIANCE", model.KindHistorical)
	require.NoError(t, err)
	assert.True(t, exists, "the refreshed series is persisted for later requests")
}

func TestHistoricalAnalysisDefaultsLookback(t *testing.T) {
	provider := &stubProvider{seriesPayload: historicalPayload(40)}
	o := newOrchestrator(memory.New(), provider, true)

	analysis := o.HistoricalAnalysis(context.Background(), "RELIANCE", 0)
	assert.Equal(t, "30 days", analysis.Period)
}

func TestTechnicalSummary(t *testing.T) {
	provider := &stubProvider{seriesPayload: historicalPayload(30)}
	o := newOrchestrator(memory.New(), provider, true)

	summary := o.TechnicalSummary(context.Background(), "RELIANCE")

	require.Empty(t, summary.Err)
	assert.Equal(t, 30, summary.DataPoints)
	assert.Equal(t, 129.00, summary.CurrentPrice)
	require.NotNil(t, summary.RSI)
	require.NotNil(t, summary.SMA)
	assert.NotEmpty(t, summary.Trend)
	assert.NotEmpty(t, summary.Signal)
}

func TestTechnicalSummaryNoData(t *testing.T) {
	provider := &stubProvider{seriesPayload: []byte(`{}`)}
	o := newOrchestrator(memory.New(), provider, true)

	summary := o.TechnicalSummary(context.Background(), "RELIANCE")

	assert.Equal(t, "no historical data available", summary.Err)
	assert.Equal(t, "ERROR", summary.Trend)
}

func TestTechnicalSummaryProviderError(t *testing.T) {
	provider := &stubProvider{seriesErr: errors.New("timeout")}
	o := newOrchestrator(memory.New(), provider, true)

	summary := o.TechnicalSummary(context.Background(), "RELIANCE")

	assert.Contains(t, summary.Err, "timeout")
	assert.Equal(t, "ERROR", summary.Trend)
	assert.Contains(t, summary.Signal, "ERROR")
}

func TestAdvancedAnalysis(t *testing.T) {
	provider := &stubProvider{seriesPayload: historicalPayload(40)}
	o := newOrchestrator(memory.New(), provider, true)

	report := o.AdvancedAnalysis(context.Background(), "RELIANCE", 40)

	require.Empty(t, report.Err)
	assert.Equal(t, 40, report.DataPoints)
	assert.NotEmpty(t, report.PricePatterns.Momentum)
	assert.NotEmpty(t, report.Sentiment.Label)
}

func TestAdvancedAnalysisEmptySeries(t *testing.T) {
	store := memory.New()
	provider := &stubProvider{seriesPayload: []byte(`{"Error Message": "Invalid API call"}`)}
	o := newOrchestrator(store, provider, true)

	report := o.AdvancedAnalysis(context.Background(), "BAD", 30)

	assert.Equal(t, "no historical data available", report.Err)

	exists, err := store.Exists(context.Background(), "BAD", model.KindHistorical)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdvancedAnalysisProviderError(t *testing.T) {
	provider := &stubProvider{seriesErr: errors.New("connection reset")}
	o := newOrchestrator(memory.New(), provider, true)

	report := o.AdvancedAnalysis(context.Background(), "RELIANCE", 30)

	assert.Contains(t, report.Err, "advanced analysis failed")
	assert.Contains(t, report.Err, "connection reset")
}
