// Package storage defines the persistence interfaces used by the scanner.
// Only liquidity pool lookups and lookup outcomes are stored, never reports.
package storage

import (
	"context"

	"solana-token-scanner/internal/domain"
)

// PoolStore caches liquidity pool records keyed by the token mint they were looked up for.
type PoolStore interface {
	// Get retrieves the pool record for a mint. Returns ErrNotFound if not exists.
	Get(ctx context.Context, mint string) (*domain.LiquidityPoolRecord, error)

	// Put stores or replaces the pool record for a mint.
	Put(ctx context.Context, mint string, rec *domain.LiquidityPoolRecord) error
}

// LookupEventStore provides access to lookup_events storage.
type LookupEventStore interface {
	// Insert appends a lookup event.
	Insert(ctx context.Context, e *domain.LookupEvent) error

	// CountByOutcome counts events with timestamp >= sinceMs grouped by outcome.
	CountByOutcome(ctx context.Context, sinceMs int64) (map[string]int64, error)
}

// HealthChecker is implemented by stores backed by a remote database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
