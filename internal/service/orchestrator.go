// Package service implements the cache-aside orchestrator: consult the
// document store, fall back to the market-data provider on a miss or stale
// hit, persist the parsed document, and hand the resulting bar series to the
// analysis layers.
//
// Concurrent misses for the same (symbol, kind) are collapsed through
// singleflight, so a cache stampede performs a single provider call whose
// result every waiting caller shares, and the store replace itself is an
// atomic upsert in every backend, so readers never observe a half-written
// series.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/shiv159/TradeWiseAi/internal/indicator"
	"github.com/shiv159/TradeWiseAi/internal/model"
	"github.com/shiv159/TradeWiseAi/internal/parser"
	"github.com/shiv159/TradeWiseAi/internal/pattern"
	"github.com/shiv159/TradeWiseAi/internal/storage"
)

// MarketDataProvider is the rate-limited market-data collaborator.
type MarketDataProvider interface {
	FetchQuote(ctx context.Context, symbol string) ([]byte, error)
	FetchDailySeries(ctx context.Context, symbol string) ([]byte, error)
}

// Config is the orchestrator's immutable configuration.
type Config struct {
	CacheEnabled bool
	TTL          time.Duration
	// LookbackDays is the default pattern-analysis window when the caller
	// does not specify one.
	LookbackDays int
}

// Orchestrator is the cache-aside controller behind every request kind.
type Orchestrator struct {
	store    storage.DocumentStore
	provider MarketDataProvider
	parser   *parser.Parser
	cfg      Config
	group    singleflight.Group
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates an Orchestrator.
func New(store storage.DocumentStore, provider MarketDataProvider, p *parser.Parser, cfg Config) *Orchestrator {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	return &Orchestrator{
		store:    store,
		provider: provider,
		parser:   p,
		cfg:      cfg,
		logger:   log.With().Str("component", "orchestrator").Logger(),
		now:      time.Now,
	}
}

// CurrentPrice answers "what is the current price of symbol". With caching
// disabled it fetches, parses and formats without touching the store; with
// caching enabled it serves a fresh CURRENT document from cache and refreshes
// otherwise. Provider failures come back as an error-tagged result, never as
// a raw error.
func (o *Orchestrator) CurrentPrice(ctx context.Context, symbol string) model.QuoteResult {
	doc, source, persistFailed, err := o.document(ctx, symbol, model.KindCurrent)
	if err != nil {
		return model.QuoteResult{Symbol: symbol, Err: err.Error()}
	}

	bar, ok := doc.Series.Last()
	if !ok {
		return model.QuoteResult{Symbol: symbol, Source: source, Err: "no quote data available"}
	}
	return model.QuoteResult{
		Symbol:           symbol,
		Price:            bar.Close,
		Open:             bar.Open,
		High:             bar.High,
		Low:              bar.Low,
		Volume:           bar.Volume,
		AsOf:             doc.LastUpdated,
		Source:           source,
		CacheWriteFailed: persistFailed,
	}
}

// HistoricalAnalysis returns the most recent days bars, ascending, with the
// indicator set computed over that window.
func (o *Orchestrator) HistoricalAnalysis(ctx context.Context, symbol string, days int) model.HistoricalAnalysis {
	if days <= 0 {
		days = o.cfg.LookbackDays
	}

	doc, _, _, err := o.document(ctx, symbol, model.KindHistorical)
	if err != nil {
		return model.HistoricalAnalysis{Symbol: symbol, Period: "ERROR", Err: err.Error()}
	}

	window := doc.Series.Tail(days)
	return model.HistoricalAnalysis{
		Symbol:          symbol,
		Bars:            window,
		Indicators:      indicatorSet(window),
		Period:          fmt.Sprintf("%d days", days),
		TotalDataPoints: window.Len(),
	}
}

// TechnicalSummary is the quick-analysis path: RSI-14 and SMA-14 over the
// full historical series plus the derived trend and signal labels.
func (o *Orchestrator) TechnicalSummary(ctx context.Context, symbol string) model.TechnicalSummary {
	summary := model.TechnicalSummary{Symbol: symbol, Timestamp: o.now()}

	doc, _, _, err := o.document(ctx, symbol, model.KindHistorical)
	if err != nil {
		summary.Trend = "ERROR"
		summary.Signal = "ERROR: " + err.Error()
		summary.Err = err.Error()
		return summary
	}

	series := doc.Series
	summary.DataPoints = series.Len()
	last, ok := series.Last()
	if !ok {
		summary.Err = "no historical data available"
		summary.Trend = "ERROR"
		summary.Signal = "ERROR: " + summary.Err
		return summary
	}
	summary.CurrentPrice = last.Close

	rsi, rsiErr := indicator.RSI(series, indicator.DefaultRSIPeriod)
	sma, smaErr := indicator.SMA(series, indicator.DefaultSMAPeriod)
	if rsiErr != nil || smaErr != nil {
		summary.Trend = pattern.InsufficientData
		summary.Signal = pattern.InsufficientData
		return summary
	}

	summary.RSI = model.Float(rsi)
	summary.SMA = model.Float(sma)
	summary.Trend = pattern.TrendLabel(rsi, last.Close, sma)
	summary.Signal = pattern.Signal(rsi)
	return summary
}

// AdvancedAnalysis runs the full pattern scan over the most recent days bars.
func (o *Orchestrator) AdvancedAnalysis(ctx context.Context, symbol string, days int) model.PatternReport {
	if days <= 0 {
		days = o.cfg.LookbackDays
	}

	doc, _, _, err := o.document(ctx, symbol, model.KindHistorical)
	if err != nil {
		return model.PatternReport{
			Symbol:            symbol,
			AnalysisTimestamp: o.now(),
			Err:               "advanced analysis failed: " + err.Error(),
		}
	}
	return pattern.Analyze(symbol, doc.Series.Tail(days), o.now())
}

// document is the cache-aside core shared by all request kinds. It returns
// the document, where it came from, and whether a cache write failed along
// the way; the error is set only for provider failures.
func (o *Orchestrator) document(ctx context.Context, symbol string, kind model.DataKind) (*model.StockDocument, string, bool, error) {
	if o.cfg.CacheEnabled {
		cached, err := o.store.Find(ctx, symbol, kind)
		switch {
		case err == nil && Fresh(cached, o.cfg.TTL, o.now()):
			o.logger.Debug().Str("symbol", symbol).Str("kind", string(kind)).Msg("cache hit")
			return cached, model.SourceCache, false, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			o.logger.Warn().Err(err).Str("symbol", symbol).Str("kind", string(kind)).Msg("cache read failed, falling back to provider")
		}
	}

	doc, persistErr, err := o.refresh(ctx, symbol, kind)
	if err != nil {
		return nil, "", false, err
	}
	return doc, model.SourceProvider, persistErr != nil, nil
}

type refreshed struct {
	doc        *model.StockDocument
	persistErr error
}

// refresh fetches, parses and (with caching enabled) persists a document.
// Concurrent refreshes for the same key share one provider call. A failed
// persist does not drop the freshly fetched data: the in-memory document is
// still returned, with the failure reported separately.
func (o *Orchestrator) refresh(ctx context.Context, symbol string, kind model.DataKind) (*model.StockDocument, error, error) {
	key := symbol + "|" + string(kind)
	v, err, shared := o.group.Do(key, func() (interface{}, error) {
		// The flight may be shared with callers other than the one that
		// started it, so it must not die with the initiator: detach the
		// context and let the provider's own timeout bound the fetch.
		fctx := context.WithoutCancel(ctx)

		var (
			raw []byte
			err error
		)
		switch kind {
		case model.KindCurrent:
			raw, err = o.provider.FetchQuote(fctx, symbol)
		default:
			raw, err = o.provider.FetchDailySeries(fctx, symbol)
		}
		if err != nil {
			o.logger.Error().Err(err).Str("symbol", symbol).Str("kind", string(kind)).Msg("provider fetch failed")
			return nil, err
		}

		var doc *model.StockDocument
		if kind == model.KindCurrent {
			doc = o.parser.ParseCurrent(raw, symbol)
		} else {
			doc = o.parser.ParseHistorical(raw, symbol)
		}

		var persistErr error
		// An empty series is a soft provider miss; persisting it would make
		// the miss sticky for a full TTL.
		if o.cfg.CacheEnabled && doc.Series.Len() > 0 {
			if persistErr = o.store.Upsert(fctx, doc); persistErr != nil {
				o.logger.Error().Err(persistErr).Str("symbol", symbol).Str("kind", string(kind)).Msg("persisting refreshed document failed, returning in-memory result")
			}
		}
		return refreshed{doc: doc, persistErr: persistErr}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if shared {
		o.logger.Debug().Str("symbol", symbol).Str("kind", string(kind)).Msg("shared in-flight refresh")
	}
	res := v.(refreshed)
	return res.doc, res.persistErr, nil
}

// indicatorSet computes the historical-analysis indicator bundle over a
// window. Indicators without enough bars are left absent rather than zeroed.
func indicatorSet(s model.BarSeries) model.IndicatorSet {
	var set model.IndicatorSet
	if v, err := indicator.RSI(s, indicator.DefaultRSIPeriod); err == nil {
		set.RSI = model.Float(v)
	}
	if v, err := indicator.SMA(s, 14); err == nil {
		set.SMA14 = model.Float(v)
	}
	if v, err := indicator.SMA(s, 50); err == nil {
		set.SMA50 = model.Float(v)
	}
	if v, err := indicator.EMA(s, 12); err == nil {
		set.EMA12 = model.Float(v)
	}
	if v, err := indicator.EMA(s, 26); err == nil {
		set.EMA26 = model.Float(v)
	}
	if v, err := indicator.MACD(s, indicator.DefaultMACDFastPeriod, indicator.DefaultMACDSlowPeriod); err == nil {
		set.MACD = model.Float(v)
	}
	if bands, err := indicator.Bollinger(s, indicator.DefaultBollingerPeriod, indicator.DefaultBollingerStdDev); err == nil {
		set.BollingerUpper = model.Float(bands.Upper)
		set.BollingerLower = model.Float(bands.Lower)
	}
	if osc, err := indicator.Stochastic(s, indicator.DefaultStochasticK, indicator.DefaultStochasticD); err == nil {
		set.StochasticK = model.Float(osc.K)
		set.StochasticD = model.Float(osc.D)
	}
	return set
}
