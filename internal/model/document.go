package model

import "time"

// DataKind distinguishes the two document flavors kept per symbol.
type DataKind string

const (
	KindCurrent    DataKind = "CURRENT"
	KindHistorical DataKind = "HISTORICAL"
)

// StockDocument is the unit of persistence: one per (symbol, kind) pair.
// A refresh replaces the whole document, series included; there is no
// incremental merge.
type StockDocument struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Kind        DataKind  `json:"kind"`
	Series      BarSeries `json:"series"`
	LastUpdated time.Time `json:"last_updated"`
}
