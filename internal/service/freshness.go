package service

import (
	"time"

	"github.com/shiv159/TradeWiseAi/internal/model"
)

// Fresh reports whether a cached document is still usable under the TTL.
// A nil document or one with no LastUpdated is always stale. The TTL is
// configured in minutes and compared at full time.Duration precision, so a
// 60-minute TTL really means 60 minutes, not 60 calendar days.
func Fresh(doc *model.StockDocument, ttl time.Duration, now time.Time) bool {
	if doc == nil || doc.LastUpdated.IsZero() {
		return false
	}
	return now.Sub(doc.LastUpdated) <= ttl
}
