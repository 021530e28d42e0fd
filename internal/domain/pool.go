package domain

// LiquidityPoolRecord is a Raydium AMM v4 pool as returned by the indexing service.
// Corresponds to pool_records table in PostgreSQL.
type LiquidityPoolRecord struct {
	Pubkey    string // pool account
	LPMint    string // LP token mint
	LPReserve string // raw LP reserve recorded by the pool (integer, no decimals applied)
	BaseMint  string
	QuoteMint string
	FetchedAt int64 // when the record was fetched (ms)
}
