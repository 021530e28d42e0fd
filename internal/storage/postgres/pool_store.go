package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Get retrieves the pool record for a mint. Returns ErrNotFound if not exists.
func (s *PoolStore) Get(ctx context.Context, mint string) (rec *domain.LiquidityPoolRecord, err error) {
	start := time.Now()
	defer func() {
		queryErr := err
		if errors.Is(err, storage.ErrNotFound) {
			queryErr = nil
		}
		observability.RecordDBQuery("postgres", "pool_get", time.Since(start).Seconds(), queryErr)
	}()

	query := `
		SELECT pubkey, lp_mint, lp_reserve::text, base_mint, quote_mint, fetched_at
		FROM pool_records
		WHERE mint = $1
	`

	var r domain.LiquidityPoolRecord
	err = s.pool.QueryRow(ctx, query, mint).Scan(
		&r.Pubkey,
		&r.LPMint,
		&r.LPReserve,
		&r.BaseMint,
		&r.QuoteMint,
		&r.FetchedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool record: %w", err)
	}
	return &r, nil
}

// Put stores or replaces the pool record for a mint.
func (s *PoolStore) Put(ctx context.Context, mint string, rec *domain.LiquidityPoolRecord) (err error) {
	if rec == nil || mint == "" || rec.LPMint == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "pool_put", time.Since(start).Seconds(), err)
	}()

	reserve := rec.LPReserve
	if reserve == "" {
		reserve = "0"
	}

	query := `
		INSERT INTO pool_records (
			mint, pubkey, lp_mint, lp_reserve, base_mint, quote_mint, fetched_at
		) VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		ON CONFLICT (mint) DO UPDATE SET
			pubkey = EXCLUDED.pubkey,
			lp_mint = EXCLUDED.lp_mint,
			lp_reserve = EXCLUDED.lp_reserve,
			base_mint = EXCLUDED.base_mint,
			quote_mint = EXCLUDED.quote_mint,
			fetched_at = EXCLUDED.fetched_at,
			updated_at = NOW()
	`

	_, err = s.pool.Exec(ctx, query,
		mint,
		rec.Pubkey,
		rec.LPMint,
		reserve,
		rec.BaseMint,
		rec.QuoteMint,
		rec.FetchedAt,
	)
	if err != nil {
		if isInvalidInputError(err) {
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("upsert pool record: %w", err)
	}
	return nil
}
