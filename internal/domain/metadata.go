package domain

// MintAccountInfo is the live state of an SPL token mint read from the ledger.
type MintAccountInfo struct {
	Mint            string
	Decimals        *int   // nil when the account could not be parsed
	Supply          string // raw integer supply, no decimals applied
	MintAuthority   *string
	FreezeAuthority *string
}

// TokenMetadata represents Metaplex token metadata read from on-chain.
type TokenMetadata struct {
	Mint   string
	Name   *string
	Symbol *string
}
