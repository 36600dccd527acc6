// Package parser converts raw provider payloads into canonical stock
// documents. Parsing is deliberately defensive: malformed numeric fields
// degrade to zero with a warning instead of failing the request, and a
// missing top-level section yields a document with an empty series, which is
// a distinct signal from "data exists but values are zero".
package parser

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Provider payload sections and field keys.
const (
	quoteSection  = "Global Quote"
	seriesSection = "Time Series (Daily)"

	quoteOpenKey   = "02. open"
	quoteHighKey   = "03. high"
	quoteLowKey    = "04. low"
	quotePriceKey  = "05. price"
	quoteVolumeKey = "06. volume"

	dailyOpenKey   = "1. open"
	dailyHighKey   = "2. high"
	dailyLowKey    = "3. low"
	dailyCloseKey  = "4. close"
	dailyVolumeKey = "5. volume"

	dateLayout = "2006-01-02"
)

// Parser builds stock documents from raw provider payloads.
type Parser struct {
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a Parser. The document LastUpdated is always the parse time,
// never a provider-supplied timestamp.
func New() *Parser {
	return &Parser{
		logger: log.With().Str("component", "parser").Logger(),
		now:    time.Now,
	}
}

// ParseCurrent converts a quote payload into a CURRENT document holding a
// single bar dated today. An absent quote section produces an empty series.
func (p *Parser) ParseCurrent(payload []byte, symbol string) *model.StockDocument {
	doc := &model.StockDocument{
		Symbol:      symbol,
		Kind:        model.KindCurrent,
		Series:      model.BarSeries{},
		LastUpdated: p.now(),
	}

	quote, ok := p.section(payload, quoteSection, symbol)
	if !ok {
		return doc
	}

	var fields map[string]string
	if err := json.Unmarshal(quote, &fields); err != nil || len(fields) == 0 {
		p.logger.Warn().Str("symbol", symbol).Msg("quote section is not a field map, returning empty series")
		return doc
	}

	doc.Series = model.BarSeries{{
		Date:   p.now().Truncate(24 * time.Hour),
		Open:   p.parseDecimal(fields[quoteOpenKey], symbol, quoteOpenKey),
		High:   p.parseDecimal(fields[quoteHighKey], symbol, quoteHighKey),
		Low:    p.parseDecimal(fields[quoteLowKey], symbol, quoteLowKey),
		Close:  p.parseDecimal(fields[quotePriceKey], symbol, quotePriceKey),
		Volume: p.parseVolume(fields[quoteVolumeKey], symbol),
	}}
	return doc
}

// ParseHistorical converts a daily time-series payload into a HISTORICAL
// document. Source dates may arrive in any order; the resulting series is
// sorted ascending. Entries with unparsable dates or a non-map shape are
// skipped, not fatal.
func (p *Parser) ParseHistorical(payload []byte, symbol string) *model.StockDocument {
	doc := &model.StockDocument{
		Symbol:      symbol,
		Kind:        model.KindHistorical,
		Series:      model.BarSeries{},
		LastUpdated: p.now(),
	}

	section, ok := p.section(payload, seriesSection, symbol)
	if !ok {
		return doc
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(section, &days); err != nil {
		p.logger.Warn().Str("symbol", symbol).Msg("time series section is not an object, returning empty series")
		return doc
	}

	series := make(model.BarSeries, 0, len(days))
	for dateStr, raw := range days {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			p.logger.Warn().Str("symbol", symbol).Str("date", dateStr).Msg("skipping entry with unparsable date")
			continue
		}
		var fields map[string]string
		if err := json.Unmarshal(raw, &fields); err != nil {
			p.logger.Warn().Str("symbol", symbol).Str("date", dateStr).Msg("skipping entry with unexpected shape")
			continue
		}
		series = append(series, model.DailyBar{
			Date:   date,
			Open:   p.parseDecimal(fields[dailyOpenKey], symbol, dailyOpenKey),
			High:   p.parseDecimal(fields[dailyHighKey], symbol, dailyHighKey),
			Low:    p.parseDecimal(fields[dailyLowKey], symbol, dailyLowKey),
			Close:  p.parseDecimal(fields[dailyCloseKey], symbol, dailyCloseKey),
			Volume: p.parseVolume(fields[dailyVolumeKey], symbol),
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	doc.Series = series
	p.logger.Debug().Str("symbol", symbol).Int("bars", len(series)).Msg("parsed historical series")
	return doc
}

// section extracts a top-level payload section, reporting absence (or a
// payload that is not JSON at all) as a soft miss.
func (p *Parser) section(payload []byte, name, symbol string) (json.RawMessage, bool) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		p.logger.Warn().Err(err).Str("symbol", symbol).Msg("payload is not a JSON object, returning empty series")
		return nil, false
	}
	raw, ok := root[name]
	if !ok {
		p.logger.Warn().Str("symbol", symbol).Str("section", name).Msg("section missing from payload")
		return nil, false
	}
	return raw, true
}

// parseDecimal parses a price field, defaulting to zero on anything
// unparsable so that one inconsistent field cannot abort the request.
func (p *Parser) parseDecimal(value, symbol, field string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		p.logger.Warn().Str("symbol", symbol).Str("field", field).Str("value", value).Msg("unparsable decimal field, defaulting to 0")
		return 0
	}
	return f
}

func (p *Parser) parseVolume(value, symbol string) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		p.logger.Warn().Str("symbol", symbol).Str("value", value).Msg("unparsable volume field, defaulting to 0")
		return 0
	}
	return v
}
