package domain

import (
	"fmt"
	"strings"
)

// ValidationError is returned when a raw identifier fails the charset or length check.
type ValidationError struct {
	Input  string
	Length int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid address (length %d): %s", e.Length, e.Reason)
}

// SourceError is a failed request to one upstream source.
type SourceError struct {
	Source string
	Err    error
}

// UpstreamFetchError is returned when the required upstream lookups failed.
type UpstreamFetchError struct {
	Failures []SourceError
}

func (e *UpstreamFetchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return "upstream fetch failed: " + strings.Join(parts, "; ")
}

// Unwrap returns the underlying source errors.
func (e *UpstreamFetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// MissingDataError is returned when upstream requests succeeded but carried no payload.
type MissingDataError struct {
	Address string
	Source  string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no %s data for %s", e.Source, e.Address)
}

// OnChainQueryError is an indexing or RPC failure during enrichment.
// It never reaches the user.
type OnChainQueryError struct {
	Step string // "pool_lookup" | "mint_info" | "scale"
	Err  error
}

func (e *OnChainQueryError) Error() string {
	return fmt.Sprintf("on-chain %s: %v", e.Step, e.Err)
}

func (e *OnChainQueryError) Unwrap() error {
	return e.Err
}
