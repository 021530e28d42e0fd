package metrics

import (
	"math"
	"testing"

	"solana-token-scanner/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestAggregatePairs_SkipsIncompletePairs(t *testing.T) {
	pairs := []*domain.MarketPair{
		{LiquidityUSD: f(1000), FDV: f(50000), PriceUSD: f(0.5)},
		{LiquidityUSD: f(3000), FDV: f(70000), PriceUSD: f(1.5)},
		{LiquidityUSD: nil, FDV: f(1), PriceUSD: f(100)},
		{LiquidityUSD: f(10), FDV: nil, PriceUSD: f(100)},
		{LiquidityUSD: f(10), FDV: f(10), PriceUSD: f(math.NaN())},
		nil,
	}

	agg := AggregatePairs(pairs)

	if agg.ValidPairs != 2 {
		t.Fatalf("expected 2 valid pairs, got %d", agg.ValidPairs)
	}
	if agg.TotalPairs != 6 {
		t.Errorf("expected 6 total pairs, got %d", agg.TotalPairs)
	}
	if agg.TotalLiquidityUSD != 4000 {
		t.Errorf("expected liquidity 4000, got %f", agg.TotalLiquidityUSD)
	}
	if agg.TotalFDV != 120000 {
		t.Errorf("expected fdv 120000, got %f", agg.TotalFDV)
	}
	if agg.AveragePriceUSD != 1.0 {
		t.Errorf("expected average price 1.0, got %f", agg.AveragePriceUSD)
	}
}

func TestAggregatePairs_NoValidPairs(t *testing.T) {
	agg := AggregatePairs([]*domain.MarketPair{{PriceUSD: f(1)}})
	if agg.AveragePriceUSD != 0 || agg.ValidPairs != 0 {
		t.Errorf("expected zero aggregate, got %+v", agg)
	}

	empty := AggregatePairs(nil)
	if empty.AveragePriceUSD != 0 || empty.TotalPairs != 0 {
		t.Errorf("expected zero aggregate for nil input, got %+v", empty)
	}
}
