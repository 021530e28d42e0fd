// Package enrich derives the LP burn percentage of a token from on-chain data.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/metrics"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/storage"
)

// Enrichment steps, used in errors and metrics.
const (
	StepPoolLookup = "pool_lookup"
	StepMintInfo   = "mint_info"
	StepScale      = "scale"
)

// Default configuration values.
const (
	DefaultTimeout = 10 * time.Second
	DefaultPoolTTL = 10 * time.Minute
)

var (
	// ErrNoPool is returned when the indexing service knows no pool for the token.
	ErrNoPool = errors.New("no liquidity pool found")

	// ErrMintNotFound is returned when the LP mint account does not exist.
	ErrMintNotFound = errors.New("lp mint account not found")

	// ErrMissingDecimals is returned when the LP mint carries no decimals.
	ErrMissingDecimals = errors.New("lp mint decimals missing")
)

// PoolSource looks up liquidity pools by token mint.
type PoolSource interface {
	PoolsByMint(ctx context.Context, mint string) ([]domain.LiquidityPoolRecord, error)
}

// Enricher computes the burn percentage of a token's first Raydium pool.
// It is safe for concurrent use.
type Enricher struct {
	pools   PoolSource
	rpc     solana.RPCClient
	store   storage.PoolStore
	poolTTL time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithPoolStore caches pool records in store for ttl.
func WithPoolStore(store storage.PoolStore, ttl time.Duration) Option {
	return func(e *Enricher) {
		e.store = store
		e.poolTTL = ttl
	}
}

// WithTimeout bounds the whole enrichment.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		e.timeout = d
	}
}

// WithClock sets the clock used for pool freshness.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		e.now = now
	}
}

// NewEnricher creates a new Enricher.
func NewEnricher(pools PoolSource, rpc solana.RPCClient, logger *zap.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		pools:   pools,
		rpc:     rpc,
		poolTTL: DefaultPoolTTL,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  logger.Named("enrich"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BurnPercentage returns the LP burn percentage of the token, or nil when it
// could not be determined. It never fails.
func (e *Enricher) BurnPercentage(ctx context.Context, address string) *float64 {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	burn, err := e.burn(ctx, address)
	if err != nil {
		var qErr *domain.OnChainQueryError
		step := "unknown"
		if errors.As(err, &qErr) {
			step = qErr.Step
		}
		observability.RecordEnrich(step, "error")

		if errors.Is(err, ErrNoPool) {
			e.logger.Debug("No pool for token", zap.String("address", address))
		} else {
			e.logger.Warn("On-chain enrichment failed",
				zap.String("address", address),
				zap.String("step", step),
				zap.Error(err),
			)
		}
		return nil
	}

	observability.RecordEnrich("burn", "ok")
	return &burn
}

func (e *Enricher) burn(ctx context.Context, address string) (float64, error) {
	rec, err := e.poolRecord(ctx, address)
	if err != nil {
		return 0, &domain.OnChainQueryError{Step: StepPoolLookup, Err: err}
	}

	mint, err := e.rpc.GetMintInfo(ctx, rec.LPMint)
	if err != nil {
		return 0, &domain.OnChainQueryError{Step: StepMintInfo, Err: err}
	}
	if mint == nil {
		return 0, &domain.OnChainQueryError{Step: StepMintInfo, Err: ErrMintNotFound}
	}
	if mint.Decimals == nil {
		return 0, &domain.OnChainQueryError{Step: StepScale, Err: ErrMissingDecimals}
	}

	reserve, err := scale(rec.LPReserve, *mint.Decimals)
	if err != nil {
		return 0, &domain.OnChainQueryError{Step: StepScale, Err: fmt.Errorf("lp reserve: %w", err)}
	}
	supply, err := scale(mint.Supply, *mint.Decimals)
	if err != nil {
		return 0, &domain.OnChainQueryError{Step: StepScale, Err: fmt.Errorf("lp supply: %w", err)}
	}

	return metrics.BurnPercentage(reserve, supply), nil
}

// poolRecord returns the first pool for the token, preferring a fresh cached record.
func (e *Enricher) poolRecord(ctx context.Context, address string) (*domain.LiquidityPoolRecord, error) {
	if e.store != nil {
		rec, err := e.store.Get(ctx, address)
		switch {
		case err == nil && e.fresh(rec):
			observability.RecordEnrich(StepPoolLookup, "cached")
			return rec, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			e.logger.Debug("Pool store read failed", zap.String("address", address), zap.Error(err))
		}
	}

	pools, err := e.pools.PoolsByMint(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, ErrNoPool
	}
	rec := pools[0]

	if e.store != nil {
		if err := e.store.Put(ctx, address, &rec); err != nil {
			e.logger.Debug("Pool store write failed", zap.String("address", address), zap.Error(err))
		}
	}
	return &rec, nil
}

func (e *Enricher) fresh(rec *domain.LiquidityPoolRecord) bool {
	age := e.now().Sub(time.UnixMilli(rec.FetchedAt))
	return age >= 0 && age < e.poolTTL
}

// scale converts a raw integer amount to human scale.
func scale(raw string, decimals int) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	return d.Shift(int32(-decimals)).InexactFloat64(), nil
}
