// Package pipeline runs the token report pipeline: fetch, enrich, metadata
// fallback and formatting, recording the outcome of every lookup.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/market"
	"solana-token-scanner/internal/metrics"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/reporting"
	"solana-token-scanner/internal/storage"
	"solana-token-scanner/internal/validation"
)

// Report kinds used as metric labels.
const (
	KindToken = "token"
	KindPairs = "pairs"
)

// DefaultTimeout bounds a whole report build.
const DefaultTimeout = 25 * time.Second

// Fetcher retrieves the security profile and market overview of a token.
type Fetcher interface {
	Fetch(ctx context.Context, id domain.AssetIdentifier) (*domain.SecurityProfile, *domain.MarketOverview, error)
}

// Enricher computes the LP burn percentage. A nil result means unknown.
type Enricher interface {
	BurnPercentage(ctx context.Context, address string) *float64
}

// MetadataReader reads on-chain token metadata.
type MetadataReader interface {
	GetTokenMetadata(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}

// PairsClient lists DEX trading pairs of a token.
type PairsClient interface {
	TokenPairs(ctx context.Context, address string) ([]*domain.MarketPair, error)
}

// Reporter builds token reports. It is safe for concurrent use.
type Reporter struct {
	fetcher  Fetcher
	enricher Enricher
	metadata MetadataReader           // optional
	pairs    PairsClient              // optional, required by BuildPairs
	events   storage.LookupEventStore // optional
	logger   *zap.Logger
	clock    func() time.Time
	timeout  time.Duration
	source   string
}

// NewReporter creates a new reporter.
func NewReporter(fetcher Fetcher, enricher Enricher, logger *zap.Logger) *Reporter {
	return &Reporter{
		fetcher:  fetcher,
		enricher: enricher,
		logger:   logger.Named("pipeline"),
		clock:    func() time.Time { return time.Now().UTC() },
		timeout:  DefaultTimeout,
		source:   "api",
	}
}

// WithMetadata enables the Metaplex name/symbol fallback.
func (r *Reporter) WithMetadata(m MetadataReader) *Reporter {
	r.metadata = m
	return r
}

// WithPairs sets the DEX pairs client used by BuildPairs.
func (r *Reporter) WithPairs(p PairsClient) *Reporter {
	r.pairs = p
	return r
}

// WithEventStore records every lookup outcome in store.
func (r *Reporter) WithEventStore(store storage.LookupEventStore) *Reporter {
	r.events = store
	return r
}

// WithClock sets a custom clock function for deterministic output.
func (r *Reporter) WithClock(clock func() time.Time) *Reporter {
	r.clock = clock
	return r
}

// WithTimeout bounds every Build and BuildPairs call.
func (r *Reporter) WithTimeout(d time.Duration) *Reporter {
	r.timeout = d
	return r
}

// ForSource returns a copy of the reporter that labels lookup events with source.
func (r *Reporter) ForSource(source string) *Reporter {
	cp := *r
	cp.source = source
	return &cp
}

// Validate validates raw user input. Rejected input is recorded as a lookup
// event before the error is returned.
func (r *Reporter) Validate(ctx context.Context, text string) (domain.AssetIdentifier, error) {
	id, err := validation.Validate(text)
	if err != nil {
		observability.RecordReport(KindToken, domain.OutcomeValidationError, 0)
		r.record(ctx, &domain.LookupEvent{
			Address:   truncate(strings.TrimSpace(text), validation.MaxAddressLength),
			Source:    r.source,
			Outcome:   domain.OutcomeValidationError,
			Timestamp: r.clock().UnixMilli(),
		})
		return "", err
	}
	return id, nil
}

// Build runs the full pipeline for a validated address and returns the
// rendered report. Fetch failures are returned as *domain.UpstreamFetchError or
// *domain.MissingDataError; enrichment never fails the report.
func (r *Reporter) Build(ctx context.Context, id domain.AssetIdentifier) (string, error) {
	start := time.Now()
	event := &domain.LookupEvent{
		Address:   id.String(),
		Source:    r.source,
		Timestamp: r.clock().UnixMilli(),
	}
	defer func() {
		event.TotalMs = time.Since(start).Milliseconds()
		observability.RecordReport(KindToken, event.Outcome, time.Since(start).Seconds())
		r.record(ctx, event)
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	security, overview, err := r.fetcher.Fetch(ctx, id)
	event.FetchMs = time.Since(start).Milliseconds()
	if err != nil {
		event.Outcome = Outcome(err)
		r.logger.Info("Report fetch failed",
			zap.String("address", id.String()),
			zap.String("outcome", event.Outcome),
			zap.Error(err),
		)
		return "", err
	}

	enrichStart := time.Now()
	burn := r.enricher.BurnPercentage(ctx, id.String())
	event.EnrichMs = time.Since(enrichStart).Milliseconds()
	event.BurnAvailable = burn != nil

	overview = r.withMetadata(ctx, id, overview)

	event.Outcome = domain.OutcomeOK
	return reporting.RenderTokenReport(reporting.ReportInput{
		Address:        id.String(),
		Security:       security,
		Overview:       overview,
		BurnPercentage: burn,
		Now:            r.clock(),
	}), nil
}

// BuildPairs renders the liquidity aggregated over all DEX pairs of a token.
func (r *Reporter) BuildPairs(ctx context.Context, id domain.AssetIdentifier) (string, error) {
	if r.pairs == nil {
		return "", errors.New("pairs client not configured")
	}

	start := time.Now()
	event := &domain.LookupEvent{
		Address:   id.String(),
		Source:    r.source,
		Timestamp: r.clock().UnixMilli(),
	}
	defer func() {
		event.TotalMs = time.Since(start).Milliseconds()
		observability.RecordReport(KindPairs, event.Outcome, time.Since(start).Seconds())
		r.record(ctx, event)
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pairs, err := r.pairs.TokenPairs(ctx, id.String())
	event.FetchMs = time.Since(start).Milliseconds()
	if err != nil {
		event.Outcome = domain.OutcomeUpstreamError
		return "", &domain.UpstreamFetchError{
			Failures: []domain.SourceError{{Source: market.SourceDexScreener, Err: err}},
		}
	}
	if len(pairs) == 0 {
		event.Outcome = domain.OutcomeMissingData
		return "", &domain.MissingDataError{Address: id.String(), Source: market.SourceDexScreener}
	}

	event.Outcome = domain.OutcomeOK
	return reporting.RenderPairsReport(pairs, metrics.AggregatePairs(pairs), r.clock()), nil
}

// Outcome maps a pipeline error to a lookup outcome.
func Outcome(err error) string {
	var vErr *domain.ValidationError
	var mErr *domain.MissingDataError
	switch {
	case err == nil:
		return domain.OutcomeOK
	case errors.As(err, &vErr):
		return domain.OutcomeValidationError
	case errors.As(err, &mErr):
		return domain.OutcomeMissingData
	default:
		return domain.OutcomeUpstreamError
	}
}

// withMetadata fills a missing name or symbol from Metaplex metadata.
// The lookup is best-effort and the input overview is never modified.
func (r *Reporter) withMetadata(ctx context.Context, id domain.AssetIdentifier, overview *domain.MarketOverview) *domain.MarketOverview {
	if r.metadata == nil || overview == nil {
		return overview
	}
	if strings.TrimSpace(overview.Name) != "" && strings.TrimSpace(overview.Symbol) != "" {
		return overview
	}

	meta, err := r.metadata.GetTokenMetadata(ctx, id.String())
	if err != nil {
		r.logger.Debug("Metadata lookup failed", zap.String("address", id.String()), zap.Error(err))
		return overview
	}
	if meta == nil {
		return overview
	}

	ov := *overview
	if strings.TrimSpace(ov.Name) == "" && meta.Name != nil {
		ov.Name = *meta.Name
	}
	if strings.TrimSpace(ov.Symbol) == "" && meta.Symbol != nil {
		ov.Symbol = *meta.Symbol
	}
	return &ov
}

func (r *Reporter) record(ctx context.Context, e *domain.LookupEvent) {
	if r.events == nil {
		return
	}
	if err := r.events.Insert(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Warn("Failed to record lookup event",
			zap.String("address", e.Address),
			zap.String("outcome", e.Outcome),
			zap.Error(err),
		)
	}
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
