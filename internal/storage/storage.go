// Package storage defines the document-store contract the orchestrator
// caches against. The store is keyed by (symbol, kind); at most one document
// exists per key, and Upsert is an atomic replace in every implementation so
// readers never observe a window with no document during a refresh.
package storage

import (
	"context"
	"errors"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// ErrNotFound is returned by Find when no document exists for the key.
var ErrNotFound = errors.New("storage: document not found")

// DocumentStore persists stock documents keyed by (symbol, kind).
type DocumentStore interface {
	// Find returns the document for the key, or ErrNotFound.
	Find(ctx context.Context, symbol string, kind model.DataKind) (*model.StockDocument, error)
	// Upsert atomically replaces the document for (doc.Symbol, doc.Kind),
	// assigning doc.ID when empty.
	Upsert(ctx context.Context, doc *model.StockDocument) error
	// Delete removes the document for the key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, symbol string, kind model.DataKind) error
	// Exists reports whether a document is present for the key.
	Exists(ctx context.Context, symbol string, kind model.DataKind) (bool, error)
	// Close releases the underlying connection, if any.
	Close() error
}
