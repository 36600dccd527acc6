// Package memory is a mutex-guarded in-process document store, used as the
// default dev backend and by tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shiv159/TradeWiseAi/internal/model"
	"github.com/shiv159/TradeWiseAi/internal/storage"
)

// Store keeps documents in a map keyed by symbol and kind.
type Store struct {
	mu   sync.RWMutex
	docs map[key]model.StockDocument
}

type key struct {
	symbol string
	kind   model.DataKind
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[key]model.StockDocument)}
}

// Find returns a copy of the stored document or storage.ErrNotFound.
func (s *Store) Find(_ context.Context, symbol string, kind model.DataKind) (*model.StockDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key{symbol, kind}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := doc
	out.Series = append(model.BarSeries(nil), doc.Series...)
	return &out, nil
}

// Upsert replaces the document for (doc.Symbol, doc.Kind) under the lock,
// so the replace is atomic with respect to readers.
func (s *Store) Upsert(_ context.Context, doc *model.StockDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	stored := *doc
	stored.Series = append(model.BarSeries(nil), doc.Series...)
	s.docs[key{doc.Symbol, doc.Kind}] = stored
	return nil
}

// Delete removes the document for the key; missing keys are a no-op.
func (s *Store) Delete(_ context.Context, symbol string, kind model.DataKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key{symbol, kind})
	return nil
}

// Exists reports whether a document is present for the key.
func (s *Store) Exists(_ context.Context, symbol string, kind model.DataKind) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[key{symbol, kind}]
	return ok, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
