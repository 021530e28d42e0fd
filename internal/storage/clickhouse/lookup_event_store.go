package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/storage"
)

// LookupEventStore implements storage.LookupEventStore using ClickHouse.
type LookupEventStore struct {
	conn *Conn
}

// NewLookupEventStore creates a new LookupEventStore.
func NewLookupEventStore(conn *Conn) *LookupEventStore {
	return &LookupEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LookupEventStore = (*LookupEventStore)(nil)

// Insert appends a lookup event.
func (s *LookupEventStore) Insert(ctx context.Context, e *domain.LookupEvent) (err error) {
	if e == nil || e.Outcome == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "lookup_insert", time.Since(start).Seconds(), err)
	}()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO lookup_events (
			address, source, outcome, burn_available, fetch_ms, enrich_ms, total_ms, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	var burn uint8
	if e.BurnAvailable {
		burn = 1
	}

	err = batch.Append(
		e.Address, e.Source, e.Outcome, burn,
		clampUint32(e.FetchMs), clampUint32(e.EnrichMs), clampUint32(e.TotalMs),
		uint64(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// CountByOutcome counts events with timestamp >= sinceMs grouped by outcome.
func (s *LookupEventStore) CountByOutcome(ctx context.Context, sinceMs int64) (counts map[string]int64, err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "lookup_count", time.Since(start).Seconds(), err)
	}()

	if sinceMs < 0 {
		sinceMs = 0
	}

	query := `
		SELECT outcome, count() AS n
		FROM lookup_events
		WHERE timestamp_ms >= ?
		GROUP BY outcome
	`

	rows, err := s.conn.Query(ctx, query, uint64(sinceMs))
	if err != nil {
		return nil, fmt.Errorf("query lookup events: %w", err)
	}
	defer rows.Close()

	counts = make(map[string]int64)
	for rows.Next() {
		var (
			outcome string
			n       uint64
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[outcome] = int64(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return counts, nil
}

func clampUint32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
