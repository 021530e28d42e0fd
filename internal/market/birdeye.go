package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"solana-token-scanner/internal/domain"
)

// DefaultBirdeyeURL is the public Birdeye API.
const DefaultBirdeyeURL = "https://public-api.birdeye.so"

// BirdeyeClient queries the Birdeye security and overview endpoints.
type BirdeyeClient struct {
	apiKey string
	opts   options
}

// NewBirdeyeClient creates a new Birdeye client.
func NewBirdeyeClient(apiKey string, opts ...Option) *BirdeyeClient {
	return &BirdeyeClient{
		apiKey: apiKey,
		opts:   buildOptions(DefaultBirdeyeURL, opts),
	}
}

type birdeyeEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *birdeyeEnvelope) empty() bool {
	if !e.Success {
		return true
	}
	s := string(e.Data)
	return s == "" || s == "null" || s == "{}"
}

type securityData struct {
	OwnerAddress       optString       `json:"ownerAddress"`
	CreatorAddress     optString       `json:"creatorAddress"`
	CreationTime       optFloat        `json:"creationTime"`
	Top10HolderBalance optFloat        `json:"top10HolderBalance"`
	Top10HolderPercent optFloat        `json:"top10HolderPercent"`
	TotalSupply        optFloat        `json:"totalSupply"`
	TransferFeeEnable  *bool           `json:"transferFeeEnable"`
	TransferFeeData    json.RawMessage `json:"transferFeeData"`
}

type transferFeeData struct {
	NewerTransferFee struct {
		TransferFeeBasisPoints optFloat `json:"transferFeeBasisPoints"`
	} `json:"newerTransferFee"`
}

type overviewData struct {
	Address    optString `json:"address"`
	Symbol     optString `json:"symbol"`
	Name       optString `json:"name"`
	Liquidity  optFloat  `json:"liquidity"`
	Price      optFloat  `json:"price"`
	MC         optFloat  `json:"mc"`
	MarketCap  optFloat  `json:"marketCap"`
	Supply     optFloat  `json:"supply"`
	Extensions *struct {
		Description optString `json:"description"`
	} `json:"extensions"`
}

func (c *BirdeyeClient) get(ctx context.Context, source, path, address string) (*birdeyeEnvelope, error) {
	u := c.opts.baseURL + path + "?address=" + url.QueryEscape(address)

	header := http.Header{}
	header.Set("X-API-KEY", c.apiKey)
	header.Set("x-chain", "solana")

	var env birdeyeEnvelope
	if err := getJSON(ctx, c.opts.httpClient, c.opts.timeout, source, u, header, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// TokenSecurity fetches the security profile of a token.
// Returns nil, nil when the API answered without data.
func (c *BirdeyeClient) TokenSecurity(ctx context.Context, address string) (*domain.SecurityProfile, error) {
	env, err := c.get(ctx, SourceSecurity, "/defi/token_security", address)
	if err != nil {
		return nil, err
	}
	if env.empty() {
		return nil, nil
	}

	var data securityData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		// A data payload that is not an object carries nothing usable.
		return nil, nil
	}

	profile := &domain.SecurityProfile{
		OwnerAddress:       data.OwnerAddress.Value,
		CreatorAddress:     data.CreatorAddress.Value,
		Top10HolderBalance: data.Top10HolderBalance.Value,
		Top10HolderPercent: data.Top10HolderPercent.Value,
		TotalSupply:        data.TotalSupply.Value,
		TransferFee:        transferFee(data),
	}
	if data.CreationTime.Value != nil {
		ts := int64(*data.CreationTime.Value)
		profile.CreationTime = &ts
	}
	return profile, nil
}

// transferFee renders the token-2022 transfer fee as a percentage, "0" when absent.
func transferFee(data securityData) string {
	if len(data.TransferFeeData) == 0 || (data.TransferFeeEnable != nil && !*data.TransferFeeEnable) {
		return "0"
	}
	var fee transferFeeData
	if err := json.Unmarshal(data.TransferFeeData, &fee); err != nil {
		return "0"
	}
	bps := fee.NewerTransferFee.TransferFeeBasisPoints.Value
	if bps == nil {
		return "0"
	}
	return strconv.FormatFloat(*bps/100, 'f', -1, 64)
}

// TokenOverview fetches the market overview of a token.
// Returns nil, nil when the API answered without data.
func (c *BirdeyeClient) TokenOverview(ctx context.Context, address string) (*domain.MarketOverview, error) {
	env, err := c.get(ctx, SourceOverview, "/defi/token_overview", address)
	if err != nil {
		return nil, err
	}
	if env.empty() {
		return nil, nil
	}

	var data overviewData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, nil
	}

	overview := &domain.MarketOverview{
		Address:   data.Address.String(),
		Symbol:    data.Symbol.String(),
		Name:      data.Name.String(),
		Liquidity: data.Liquidity.Value,
		Price:     data.Price.Value,
		MarketCap: data.MC.Value,
		Supply:    data.Supply.Value,
	}
	if overview.MarketCap == nil {
		overview.MarketCap = data.MarketCap.Value
	}
	if data.Extensions != nil {
		overview.Description = data.Extensions.Description.Value
	}
	return overview, nil
}
