package metrics

import "math"

// BurnPercentage infers the share of LP tokens removed from circulation.
// lpReserve is the reserve recorded by the pool, actualSupply the live supply of
// the LP mint, both already scaled by the mint decimals. One unit of slack is
// allowed for rounding. Matches Raydium's frontend calculation.
func BurnPercentage(lpReserve, actualSupply float64) float64 {
	maxLpSupply := math.Max(actualSupply, lpReserve-1)
	if maxLpSupply <= 0 || math.IsNaN(maxLpSupply) {
		return 0
	}
	burnAmt := maxLpSupply - actualSupply
	return burnAmt / maxLpSupply * 100
}
