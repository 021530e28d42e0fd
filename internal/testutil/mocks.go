package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"solana-token-scanner/internal/domain"
)

// ErrMockMiss is returned by MockCache for absent keys.
var ErrMockMiss = errors.New("mock cache miss")

// MockMarketClient is a mock implementation of fetch.MarketClient.
type MockMarketClient struct {
	mu sync.Mutex

	Security *domain.SecurityProfile
	Overview *domain.MarketOverview

	// Function hooks for custom behavior
	TokenSecurityFunc func(ctx context.Context, address string) (*domain.SecurityProfile, error)
	TokenOverviewFunc func(ctx context.Context, address string) (*domain.MarketOverview, error)

	// Call tracking
	SecurityCalls int
	OverviewCalls int
}

func (m *MockMarketClient) TokenSecurity(ctx context.Context, address string) (*domain.SecurityProfile, error) {
	m.mu.Lock()
	m.SecurityCalls++
	m.mu.Unlock()

	if m.TokenSecurityFunc != nil {
		return m.TokenSecurityFunc(ctx, address)
	}
	return m.Security, nil
}

func (m *MockMarketClient) TokenOverview(ctx context.Context, address string) (*domain.MarketOverview, error) {
	m.mu.Lock()
	m.OverviewCalls++
	m.mu.Unlock()

	if m.TokenOverviewFunc != nil {
		return m.TokenOverviewFunc(ctx, address)
	}
	return m.Overview, nil
}

// MockPairsClient is a mock DexScreener client.
type MockPairsClient struct {
	Pairs          []*domain.MarketPair
	TokenPairsFunc func(ctx context.Context, address string) ([]*domain.MarketPair, error)
}

func (m *MockPairsClient) TokenPairs(ctx context.Context, address string) ([]*domain.MarketPair, error) {
	if m.TokenPairsFunc != nil {
		return m.TokenPairsFunc(ctx, address)
	}
	return m.Pairs, nil
}

// MockCache is an in-memory JSON cache.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr error
	SetErr error
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return m.GetErr
	}
	b, ok := m.data[key]
	if !ok {
		return ErrMockMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

// Keys returns the number of cached entries.
func (m *MockCache) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// MockPoolSource is a mock indexing service.
type MockPoolSource struct {
	mu sync.Mutex

	Pools            []domain.LiquidityPoolRecord
	PoolsByMintFunc  func(ctx context.Context, mint string) ([]domain.LiquidityPoolRecord, error)
	PoolsByMintCalls int
}

func (m *MockPoolSource) PoolsByMint(ctx context.Context, mint string) ([]domain.LiquidityPoolRecord, error) {
	m.mu.Lock()
	m.PoolsByMintCalls++
	m.mu.Unlock()

	if m.PoolsByMintFunc != nil {
		return m.PoolsByMintFunc(ctx, mint)
	}
	return m.Pools, nil
}

// Calls returns the number of PoolsByMint calls.
func (m *MockPoolSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PoolsByMintCalls
}

// MockHealthChecker is a mock implementation of storage.HealthChecker.
type MockHealthChecker struct {
	mu sync.Mutex

	Error error
	Calls int
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	var err error
	if !healthy {
		err = errors.New("health check failed")
	}
	return &MockHealthChecker{Error: err}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Error
}
