// Package testutil provides fixtures and mocks shared by package tests.
package testutil

import (
	"time"

	"solana-token-scanner/internal/domain"
)

// Common test addresses
const (
	BonkMint   = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	USDCMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	WSOLMint   = "So11111111111111111111111111111111111111112"
	OwnerAddr  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	PoolPubkey = "Hs97TCZeuYiJxooo3U73qEHXg3dKpRL4uYKYRryEK9CF"
	LPMint     = "8HoQnePLqPj4M7PUDzfw8e3Ymdwgc7NLGnaTUapubyvu"
)

// FixedNow is the clock used by deterministic tests.
var FixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// CreateTestSecurity creates a renounced security profile with every field set.
func CreateTestSecurity(opts ...SecurityOption) *domain.SecurityProfile {
	p := &domain.SecurityProfile{
		CreatorAddress:     String(OwnerAddr),
		CreationTime:       Int64(FixedNow.Add(-(25*time.Hour + time.Minute + time.Second)).Unix()),
		Top10HolderBalance: Float(45_123_456_789.5),
		Top10HolderPercent: Float(0.4567),
		TotalSupply:        Float(88_000_000_000_000),
		TransferFee:        "0",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type SecurityOption func(*domain.SecurityProfile)

func WithOwner(addr string) SecurityOption {
	return func(p *domain.SecurityProfile) {
		p.OwnerAddress = &addr
	}
}

func WithoutCreationTime() SecurityOption {
	return func(p *domain.SecurityProfile) {
		p.CreationTime = nil
	}
}

// CreateTestOverview creates a market overview with every field set.
func CreateTestOverview(opts ...OverviewOption) *domain.MarketOverview {
	o := &domain.MarketOverview{
		Address:     BonkMint,
		Symbol:      "BONK",
		Name:        "Bonk",
		Description: String("The first Solana dog coin for the people, by the people."),
		Liquidity:   Float(12_345_678.9),
		Price:       Float(0.0000214),
		MarketCap:   Float(1_420_000_000),
		Supply:      Float(88_000_000_000_000),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type OverviewOption func(*domain.MarketOverview)

func WithName(name, symbol string) OverviewOption {
	return func(o *domain.MarketOverview) {
		o.Name = name
		o.Symbol = symbol
	}
}

func WithDescription(desc string) OverviewOption {
	return func(o *domain.MarketOverview) {
		o.Description = &desc
	}
}

// CreateTestPool creates a Raydium pool record for BonkMint.
func CreateTestPool() domain.LiquidityPoolRecord {
	return domain.LiquidityPoolRecord{
		Pubkey:    PoolPubkey,
		LPMint:    LPMint,
		LPReserve: "100000000000",
		BaseMint:  BonkMint,
		QuoteMint: WSOLMint,
		FetchedAt: FixedNow.UnixMilli(),
	}
}

// CreateTestMint creates LP mint info with 9 decimals and 90 tokens of supply.
func CreateTestMint() *domain.MintAccountInfo {
	decimals := 9
	return &domain.MintAccountInfo{
		Mint:     LPMint,
		Decimals: &decimals,
		Supply:   "90000000000",
	}
}
