package domain

// Lookup outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeMissingData     = "missing_data"
)

// LookupEvent records the outcome of a single report request.
// Corresponds to lookup_events table in ClickHouse. It carries no report content.
type LookupEvent struct {
	Address       string
	Source        string // "telegram" | "api"
	Outcome       string
	BurnAvailable bool
	FetchMs       int64
	EnrichMs      int64
	TotalMs       int64
	Timestamp     int64 // unix milliseconds
}
