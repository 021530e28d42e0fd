package stub

import (
	"context"
	"errors"
	"sync"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/solana"
)

// ErrNotFound is returned when a mint is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu       sync.Mutex
	Mints    map[string]*domain.MintAccountInfo
	Metadata map[string]*domain.TokenMetadata
	Slot     int64

	// Err, when set, is returned by every call.
	Err error

	MintCalls     int
	MetadataCalls int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Mints:    make(map[string]*domain.MintAccountInfo),
		Metadata: make(map[string]*domain.TokenMetadata),
	}
}

// GetMintInfo retrieves a mint from the stub store.
func (c *RPCClient) GetMintInfo(_ context.Context, mint string) (*domain.MintAccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MintCalls++

	if c.Err != nil {
		return nil, c.Err
	}
	info, ok := c.Mints[mint]
	if !ok {
		return nil, ErrNotFound
	}
	return info, nil
}

// GetTokenMetadata retrieves metadata from the stub store. Returns nil if absent.
func (c *RPCClient) GetTokenMetadata(_ context.Context, mint string) (*domain.TokenMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MetadataCalls++

	if c.Err != nil {
		return nil, c.Err
	}
	return c.Metadata[mint], nil
}

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return 0, c.Err
	}
	return c.Slot, nil
}

// AddMint adds a mint to the stub store.
func (c *RPCClient) AddMint(info *domain.MintAccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Mints[info.Mint] = info
}

// AddMetadata adds metadata to the stub store.
func (c *RPCClient) AddMetadata(meta *domain.TokenMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Metadata[meta.Mint] = meta
}

var _ solana.RPCClient = (*RPCClient)(nil)
