package domain

// AssetIdentifier is a validated Solana account address identifying a token mint.
// Only validation.Validate constructs values that are known to be well formed.
type AssetIdentifier string

// String returns the raw address.
func (a AssetIdentifier) String() string {
	return string(a)
}
