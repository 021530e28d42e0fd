package domain

// MarketOverview holds market data for a token.
// Every numeric field is optional; nil means the upstream did not report it.
type MarketOverview struct {
	Address     string
	Symbol      string
	Name        string
	Description *string
	Liquidity   *float64 // USD
	Price       *float64 // USD
	MarketCap   *float64 // USD
	Supply      *float64
}

// Empty reports whether the overview carries no identifying data at all.
func (o *MarketOverview) Empty() bool {
	return o == nil || (o.Address == "" && o.Symbol == "" && o.Name == "" &&
		o.Price == nil && o.Liquidity == nil && o.MarketCap == nil)
}

// MarketPair is a single trading pair of a token as reported by a DEX aggregator.
type MarketPair struct {
	PairAddress   string
	DexID         string
	BaseName      string
	BaseSymbol    string
	PairCreatedAt *int64   // unix milliseconds
	LiquidityUSD  *float64 // nil when the pair reports no liquidity
	FDV           *float64
	PriceUSD      *float64
}

// PairAggregate is the result of aggregating all valid pairs of a token.
type PairAggregate struct {
	TotalLiquidityUSD float64
	TotalFDV          float64
	AveragePriceUSD   float64
	ValidPairs        int
	TotalPairs        int
}
