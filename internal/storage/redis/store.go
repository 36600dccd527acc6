// Package redis is the Redis document store. Each (symbol, kind) pair maps
// to a single key holding the JSON-encoded document, so SET is the atomic
// replace the replace semantics require.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/shiv159/TradeWiseAi/internal/model"
	"github.com/shiv159/TradeWiseAi/internal/storage"
)

// Options configures the Redis store connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store persists stock documents as JSON values under stockdoc:{symbol}:{kind}.
type Store struct {
	client *goredis.Client
}

// New connects to Redis and verifies the connection with a bounded ping.
func New(opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client}, nil
}

// Find loads and decodes the document for (symbol, kind).
func (s *Store) Find(ctx context.Context, symbol string, kind model.DataKind) (*model.StockDocument, error) {
	data, err := s.client.Get(ctx, docKey(symbol, kind)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document for %s/%s: %w", symbol, kind, err)
	}

	var doc model.StockDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document for %s/%s: %w", symbol, kind, err)
	}
	return &doc, nil
}

// Upsert replaces the value under the document key in a single SET.
// Documents carry no key TTL; freshness is the orchestrator's policy.
func (s *Store) Upsert(ctx context.Context, doc *model.StockDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document for %s/%s: %w", doc.Symbol, doc.Kind, err)
	}
	if err := s.client.Set(ctx, docKey(doc.Symbol, doc.Kind), data, 0).Err(); err != nil {
		return fmt.Errorf("writing document for %s/%s: %w", doc.Symbol, doc.Kind, err)
	}
	return nil
}

// Delete removes the document key; missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, symbol string, kind model.DataKind) error {
	if err := s.client.Del(ctx, docKey(symbol, kind)).Err(); err != nil {
		return fmt.Errorf("deleting document for %s/%s: %w", symbol, kind, err)
	}
	return nil
}

// Exists reports whether the document key is present.
func (s *Store) Exists(ctx context.Context, symbol string, kind model.DataKind) (bool, error) {
	n, err := s.client.Exists(ctx, docKey(symbol, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("checking document for %s/%s: %w", symbol, kind, err)
	}
	return n > 0, nil
}

// Close closes the Redis client.
func (s *Store) Close() error { return s.client.Close() }

func docKey(symbol string, kind model.DataKind) string {
	return fmt.Sprintf("stockdoc:%s:%s", symbol, kind)
}
