package metrics

import (
	"math"

	"solana-token-scanner/internal/domain"
)

// AggregatePairs sums liquidity, FDV and price over pairs that report all three
// values and averages the price over those pairs. With no valid pair the
// average is 0.
func AggregatePairs(pairs []*domain.MarketPair) domain.PairAggregate {
	agg := domain.PairAggregate{TotalPairs: len(pairs)}

	var totalPrice float64
	for _, p := range pairs {
		if p == nil || !valid(p.LiquidityUSD) || !valid(p.FDV) || !valid(p.PriceUSD) {
			continue
		}
		agg.TotalLiquidityUSD += *p.LiquidityUSD
		agg.TotalFDV += *p.FDV
		totalPrice += *p.PriceUSD
		agg.ValidPairs++
	}

	if agg.ValidPairs > 0 {
		agg.AveragePriceUSD = totalPrice / float64(agg.ValidPairs)
	}

	return agg
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
