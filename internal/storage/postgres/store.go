// Package postgres is the PostgreSQL document store. The bar series is kept
// as JSONB and the (symbol, kind) uniqueness is a real constraint, with
// ON CONFLICT turning the replace into a single atomic statement.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/shiv159/TradeWiseAi/internal/model"
	"github.com/shiv159/TradeWiseAi/internal/storage"
)

// Store persists stock documents in a stock_documents table.
type Store struct {
	db *sql.DB
}

// New opens a connection, verifies it and provisions the schema.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection; the caller owns schema provisioning.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS stock_documents (
			id UUID PRIMARY KEY,
			symbol TEXT NOT NULL,
			kind TEXT NOT NULL,
			series JSONB NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL,
			UNIQUE (symbol, kind)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating stock_documents table: %w", err)
	}
	return nil
}

// Find loads the document for (symbol, kind).
func (s *Store) Find(ctx context.Context, symbol string, kind model.DataKind) (*model.StockDocument, error) {
	var (
		doc         model.StockDocument
		seriesJSON  []byte
		lastUpdated time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, series, last_updated
		FROM stock_documents
		WHERE symbol = $1 AND kind = $2
	`, symbol, string(kind)).Scan(&doc.ID, &seriesJSON, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document for %s/%s: %w", symbol, kind, err)
	}

	if err := json.Unmarshal(seriesJSON, &doc.Series); err != nil {
		return nil, fmt.Errorf("decoding series for %s/%s: %w", symbol, kind, err)
	}
	doc.Symbol = symbol
	doc.Kind = kind
	doc.LastUpdated = lastUpdated
	return &doc, nil
}

// Upsert replaces the document for (doc.Symbol, doc.Kind) in one statement.
// The existing row's id is preserved on update.
func (s *Store) Upsert(ctx context.Context, doc *model.StockDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	seriesJSON, err := json.Marshal(doc.Series)
	if err != nil {
		return fmt.Errorf("encoding series for %s/%s: %w", doc.Symbol, doc.Kind, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stock_documents (id, symbol, kind, series, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, kind)
		DO UPDATE SET series = EXCLUDED.series,
					  last_updated = EXCLUDED.last_updated
	`, doc.ID, doc.Symbol, string(doc.Kind), seriesJSON, doc.LastUpdated)
	if err != nil {
		return fmt.Errorf("upserting document for %s/%s: %w", doc.Symbol, doc.Kind, err)
	}
	return nil
}

// Delete removes the document for the key; missing rows are a no-op.
func (s *Store) Delete(ctx context.Context, symbol string, kind model.DataKind) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM stock_documents WHERE symbol = $1 AND kind = $2
	`, symbol, string(kind))
	if err != nil {
		return fmt.Errorf("deleting document for %s/%s: %w", symbol, kind, err)
	}
	return nil
}

// Exists reports whether a document is present for the key.
func (s *Store) Exists(ctx context.Context, symbol string, kind model.DataKind) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM stock_documents WHERE symbol = $1 AND kind = $2)
	`, symbol, string(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking document for %s/%s: %w", symbol, kind, err)
	}
	return exists, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
