package memory

import (
	"context"
	"sync"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.LiquidityPoolRecord
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{
		byMint: make(map[string]*domain.LiquidityPoolRecord),
	}
}

// Get retrieves the pool record for a mint. Returns ErrNotFound if not exists.
func (s *PoolStore) Get(_ context.Context, mint string) (*domain.LiquidityPoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}

// Put stores or replaces the pool record for a mint.
func (s *PoolStore) Put(_ context.Context, mint string, rec *domain.LiquidityPoolRecord) error {
	if rec == nil || mint == "" || rec.LPMint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	s.byMint[mint] = &recCopy
	return nil
}

var _ storage.PoolStore = (*PoolStore)(nil)
