package market

import (
	"context"
	"net/url"

	"solana-token-scanner/internal/domain"
)

// DefaultDexScreenerURL is the public DexScreener API.
const DefaultDexScreenerURL = "https://api.dexscreener.com"

// DexScreenerClient queries token pairs from DexScreener.
type DexScreenerClient struct {
	opts options
}

// NewDexScreenerClient creates a new DexScreener client.
func NewDexScreenerClient(opts ...Option) *DexScreenerClient {
	return &DexScreenerClient{opts: buildOptions(DefaultDexScreenerURL, opts)}
}

type pairsResponse struct {
	Pairs []pairData `json:"pairs"`
}

type pairData struct {
	DexID       string `json:"dexId"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd      optFloat `json:"priceUsd"`
	FDV           optFloat `json:"fdv"`
	PairCreatedAt optFloat `json:"pairCreatedAt"`
	Liquidity     *struct {
		Usd optFloat `json:"usd"`
	} `json:"liquidity"`
}

// TokenPairs returns every pair DexScreener lists for the token.
// A nil slice means the API reported no pairs.
func (c *DexScreenerClient) TokenPairs(ctx context.Context, address string) ([]*domain.MarketPair, error) {
	u := c.opts.baseURL + "/latest/dex/tokens/" + url.PathEscape(address)

	var resp pairsResponse
	if err := getJSON(ctx, c.opts.httpClient, c.opts.timeout, SourceDexScreener, u, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Pairs) == 0 {
		return nil, nil
	}

	pairs := make([]*domain.MarketPair, 0, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pair := &domain.MarketPair{
			PairAddress: p.PairAddress,
			DexID:       p.DexID,
			BaseName:    p.BaseToken.Name,
			BaseSymbol:  p.BaseToken.Symbol,
			FDV:         p.FDV.Value,
			PriceUSD:    p.PriceUsd.Value,
		}
		if p.Liquidity != nil {
			pair.LiquidityUSD = p.Liquidity.Usd.Value
		}
		if p.PairCreatedAt.Value != nil {
			ms := int64(*p.PairCreatedAt.Value)
			pair.PairCreatedAt = &ms
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
