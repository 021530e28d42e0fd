// Package fetch issues the concurrent security and overview lookups for a token.
package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/market"
	"solana-token-scanner/internal/observability"
)

// MarketClient provides the two lookups a report requires.
type MarketClient interface {
	TokenSecurity(ctx context.Context, address string) (*domain.SecurityProfile, error)
	TokenOverview(ctx context.Context, address string) (*domain.MarketOverview, error)
}

// Cache stores decoded upstream responses. Get returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Orchestrator fetches the security profile and market overview of a token.
type Orchestrator struct {
	client   MarketClient
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCache enables response caching with the given TTL.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// NewOrchestrator creates a new fetch orchestrator.
func NewOrchestrator(client MarketClient, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		logger: logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch runs both lookups concurrently.
//
// Any failed lookup fails the whole fetch with *domain.UpstreamFetchError listing
// each failed source. If both lookups succeed without a payload the result is
// *domain.MissingDataError. A single empty side is returned as a zero value so
// the report renders sentinels for it.
func (o *Orchestrator) Fetch(ctx context.Context, id domain.AssetIdentifier) (*domain.SecurityProfile, *domain.MarketOverview, error) {
	address := id.String()

	var (
		security    *domain.SecurityProfile
		overview    *domain.MarketOverview
		securityErr error
		overviewErr error
		g           errgroup.Group
	)

	g.Go(func() error {
		security, securityErr = fetchCached(ctx, o, market.SourceSecurity, address, o.client.TokenSecurity)
		return nil
	})
	g.Go(func() error {
		overview, overviewErr = fetchCached(ctx, o, market.SourceOverview, address, o.client.TokenOverview)
		return nil
	})
	_ = g.Wait()

	var failures []domain.SourceError
	if securityErr != nil {
		failures = append(failures, domain.SourceError{Source: market.SourceSecurity, Err: securityErr})
	}
	if overviewErr != nil {
		failures = append(failures, domain.SourceError{Source: market.SourceOverview, Err: overviewErr})
	}
	if len(failures) > 0 {
		err := &domain.UpstreamFetchError{Failures: failures}
		o.logger.Warn("Upstream fetch failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, nil, err
	}

	if security == nil && overview.Empty() {
		return nil, nil, &domain.MissingDataError{Address: address, Source: "birdeye"}
	}
	if security == nil {
		security = &domain.SecurityProfile{TransferFee: "0"}
	}
	if overview == nil {
		overview = &domain.MarketOverview{Address: address}
	}
	return security, overview, nil
}

// fetchCached consults the cache before calling fn. Empty results are not cached.
func fetchCached[T any](ctx context.Context, o *Orchestrator, source, address string, fn func(context.Context, string) (*T, error)) (*T, error) {
	key := source + ":" + address

	if o.cache != nil {
		var cached T
		err := o.cache.Get(ctx, key, &cached)
		if err == nil {
			observability.RecordCacheLookup(source, true)
			return &cached, nil
		}
		observability.RecordCacheLookup(source, false)
		o.logger.Debug("Cache lookup missed", zap.String("key", key), zap.Error(err))
	}

	v, err := fn(ctx, address)
	if err != nil || v == nil {
		return v, err
	}

	if o.cache != nil {
		if err := o.cache.SetWithTTL(ctx, key, v, o.cacheTTL); err != nil {
			o.logger.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
