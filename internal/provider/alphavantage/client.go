// Package alphavantage implements the market-data provider collaborator
// against the AlphaVantage query API. The client returns the raw payload
// bytes; interpretation is left to the parser.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/shiv159/TradeWiseAi/internal/platform/http"
)

const (
	functionQuote       = "GLOBAL_QUOTE"
	functionDailySeries = "TIME_SERIES_DAILY"
)

// Error tags a provider failure with the symbol and endpoint it occurred on.
type Error struct {
	Symbol   string
	Function string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("alphavantage %s for %s: %v", e.Function, e.Symbol, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures the provider client.
type Options struct {
	APIKey string
	// BaseURL of the query endpoint, e.g. https://www.alphavantage.co/query.
	BaseURL string
	// SymbolSuffix is appended to every symbol before the call, e.g. ".BSE"
	// for Bombay Stock Exchange listings. May be empty.
	SymbolSuffix   string
	Timeout        time.Duration
	RequestsPerSec int
	MaxRetryTime   time.Duration
}

// Client calls the AlphaVantage API through the rate-limited platform client.
type Client struct {
	http   *platformhttp.Client
	opts   Options
	logger zerolog.Logger
}

// New creates a provider client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.alphavantage.co/query"
	}
	return &Client{
		http: platformhttp.NewClient(platformhttp.Options{
			Timeout:        opts.Timeout,
			RequestsPerSec: opts.RequestsPerSec,
			MaxRetryTime:   opts.MaxRetryTime,
		}),
		opts:   opts,
		logger: log.With().Str("component", "alphavantage").Logger(),
	}
}

// FetchQuote retrieves the current quote payload for a symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) ([]byte, error) {
	return c.fetch(ctx, functionQuote, symbol)
}

// FetchDailySeries retrieves the daily time-series payload for a symbol.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string) ([]byte, error) {
	return c.fetch(ctx, functionDailySeries, symbol)
}

func (c *Client) fetch(ctx context.Context, function, symbol string) ([]byte, error) {
	endpoint := c.buildURL(function, symbol)
	c.logger.Debug().Str("symbol", symbol).Str("function", function).Msg("fetching from provider")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Symbol: symbol, Function: function, Err: err}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Str("symbol", symbol).Str("function", function).Msg("provider request failed")
		return nil, &Error{Symbol: symbol, Function: function, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Symbol: symbol, Function: function, Err: fmt.Errorf("reading response body: %w", err)}
	}

	// AlphaVantage reports quota and symbol errors inside a 200 response.
	if apiErrorKey(body) {
		c.logger.Error().Str("symbol", symbol).Str("response", string(body)).Msg("provider returned API-level error")
		return nil, &Error{Symbol: symbol, Function: function, Err: fmt.Errorf("API error response")}
	}

	return body, nil
}

// apiErrorKey reports whether the payload carries a top-level "Error Message"
// or "Note" key. Only real keys count; string values that merely contain
// those words are ordinary data. Non-JSON payloads pass through to the
// parser, which treats them as a soft miss.
func apiErrorKey(body []byte) bool {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	_, hasErr := envelope["Error Message"]
	_, hasNote := envelope["Note"]
	return hasErr || hasNote
}

func (c *Client) buildURL(function, symbol string) string {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol+c.opts.SymbolSuffix)
	q.Set("apikey", c.opts.APIKey)
	return c.opts.BaseURL + "?" + q.Encode()
}
