package solana

import (
	"context"

	"solana-token-scanner/internal/domain"
)

// RPCClient defines the read-only Solana RPC calls used by the scanner.
type RPCClient interface {
	// GetMintInfo retrieves decimals, supply and authorities of a token mint.
	GetMintInfo(ctx context.Context, mint string) (*domain.MintAccountInfo, error)

	// GetTokenMetadata retrieves Metaplex name/symbol of a mint.
	GetTokenMetadata(ctx context.Context, mint string) (*domain.TokenMetadata, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)
}

var _ RPCClient = (*HTTPClient)(nil)
