// Package shyft queries Raydium liquidity pools through the Shyft GraphQL API.
package shyft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

// DefaultEndpoint is the Shyft GraphQL endpoint.
const DefaultEndpoint = "https://programs.shyft.to/v0/graphql/"

// DefaultTimeout bounds a single query.
const DefaultTimeout = 10 * time.Second

const sourceName = "shyft"

// maxBodySize caps the response body read from the API.
const maxBodySize = 4 << 20

// poolsByMintQuery selects Raydium v4 pools where the token is either side of the pair.
const poolsByMintQuery = `query PoolsByMint($where: Raydium_LiquidityPoolv4_bool_exp) {
  Raydium_LiquidityPoolv4(where: $where) {
    pubkey
    lpMint
    lpReserve
    baseMint
    quoteMint
  }
}`

// Client is a Shyft GraphQL client. It is safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	timeout  time.Duration
	now      func() time.Time
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithEndpoint overrides the GraphQL endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new Shyft client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type poolRow struct {
	Pubkey    string      `json:"pubkey"`
	LPMint    string      `json:"lpMint"`
	LPReserve json.Number `json:"lpReserve"`
	BaseMint  string      `json:"baseMint"`
	QuoteMint string      `json:"quoteMint"`
}

type poolsResponse struct {
	Data struct {
		Pools []poolRow `json:"Raydium_LiquidityPoolv4"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// PoolsByMint returns the Raydium pools where mint is the base or quote token.
// Zero matches is an empty slice and a nil error.
func (c *Client) PoolsByMint(ctx context.Context, mint string) (pools []domain.LiquidityPoolRecord, err error) {
	start := time.Now()
	defer func() {
		observability.RecordUpstream(sourceName, time.Since(start).Seconds(), err)
	}()

	variables := map[string]interface{}{
		"where": map[string]interface{}{
			"_or": []interface{}{
				map[string]interface{}{"baseMint": map[string]string{"_eq": mint}},
				map[string]interface{}{"quoteMint": map[string]string{"_eq": mint}},
			},
		},
	}

	var resp poolsResponse
	if err := c.query(ctx, poolsByMintQuery, variables, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	fetchedAt := c.now().UnixMilli()
	pools = make([]domain.LiquidityPoolRecord, 0, len(resp.Data.Pools))
	for _, row := range resp.Data.Pools {
		pools = append(pools, domain.LiquidityPoolRecord{
			Pubkey:    row.Pubkey,
			LPMint:    row.LPMint,
			LPReserve: row.LPReserve.String(),
			BaseMint:  row.BaseMint,
			QuoteMint: row.QuoteMint,
			FetchedAt: fetchedAt,
		})
	}
	return pools, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, result interface{}) error {
	if c.apiKey == "" {
		return errors.New("shyft api key not configured")
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error would embed the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("http request: %w", urlErr.Err)
		}
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
