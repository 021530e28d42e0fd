package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"

	"solana-token-scanner/internal/domain"
)

// SPL Token Mint layout (82 bytes):
// - mintAuthority: Option<Pubkey> (36 bytes: 4 + 32)
// - supply: u64 (8 bytes)
// - decimals: u8 (1 byte)
// - isInitialized: bool (1 byte)
// - freezeAuthority: Option<Pubkey> (36 bytes: 4 + 32)
const mintAccountSize = 82

// GetMintInfo retrieves the parsed state of an SPL token mint.
// The node is asked for jsonParsed encoding; if it returns raw base64 data the
// mint layout is decoded locally. Returns nil if the account does not exist.
func (c *HTTPClient) GetMintInfo(ctx context.Context, mint string) (*domain.MintAccountInfo, error) {
	params := []interface{}{
		mint,
		map[string]interface{}{
			"encoding": "jsonParsed",
		},
	}

	var result getParsedAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	return decodeMintData(mint, result.Value.Data)
}

type getParsedAccountInfoResult struct {
	Value *getParsedAccountInfoValue `json:"value"`
}

type getParsedAccountInfoValue struct {
	Data  json.RawMessage `json:"data"`
	Owner string          `json:"owner"`
}

type parsedAccountData struct {
	Parsed struct {
		Info parsedMintInfo `json:"info"`
		Type string         `json:"type"`
	} `json:"parsed"`
	Program string `json:"program"`
}

type parsedMintInfo struct {
	Decimals        *int    `json:"decimals"`
	FreezeAuthority *string `json:"freezeAuthority"`
	IsInitialized   bool    `json:"isInitialized"`
	MintAuthority   *string `json:"mintAuthority"`
	Supply          string  `json:"supply"`
}

// decodeMintData accepts either the jsonParsed object form or the
// ["<base64>", "base64"] array form of account data.
func decodeMintData(mint string, data json.RawMessage) (*domain.MintAccountInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("mint %s: empty account data", mint)
	}

	if data[0] == '[' {
		var raw []string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal raw account data: %w", err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("mint %s: empty account data", mint)
		}
		return ParseMintData(mint, raw[0])
	}

	var parsed parsedAccountData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal parsed account data: %w", err)
	}
	if parsed.Parsed.Type != "mint" {
		return nil, fmt.Errorf("account %s is not a mint (type %q)", mint, parsed.Parsed.Type)
	}

	info := parsed.Parsed.Info
	return &domain.MintAccountInfo{
		Mint:            mint,
		Decimals:        info.Decimals,
		Supply:          info.Supply,
		MintAuthority:   info.MintAuthority,
		FreezeAuthority: info.FreezeAuthority,
	}, nil
}

// ParseMintData decodes a base64-encoded SPL token mint account.
func ParseMintData(mint, data string) (*domain.MintAccountInfo, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode mint data: %w", err)
	}

	if len(decoded) < mintAccountSize {
		return nil, fmt.Errorf("mint data too short: %d", len(decoded))
	}

	supply := binary.LittleEndian.Uint64(decoded[36:44])
	decimals := int(decoded[44])

	return &domain.MintAccountInfo{
		Mint:            mint,
		Decimals:        &decimals,
		Supply:          strconv.FormatUint(supply, 10),
		MintAuthority:   optionalPubkey(decoded[0:36]),
		FreezeAuthority: optionalPubkey(decoded[46:82]),
	}, nil
}

// optionalPubkey decodes a COption<Pubkey>: a u32 tag followed by 32 key bytes.
func optionalPubkey(b []byte) *string {
	if binary.LittleEndian.Uint32(b[0:4]) == 0 {
		return nil
	}
	key := base58.Encode(b[4:36])
	return &key
}
