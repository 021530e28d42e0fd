package solana

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"solana-token-scanner/internal/domain"
)

// MetaplexProgramID is the Metaplex Token Metadata program.
const MetaplexProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// GetTokenMetadata reads the Metaplex metadata account of a mint.
// Returns nil if the mint has no metadata account.
func (c *HTTPClient) GetTokenMetadata(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	pda, err := MetadataPDA(mint)
	if err != nil {
		return nil, err
	}

	info, err := c.GetAccountInfo(ctx, pda)
	if err != nil {
		return nil, fmt.Errorf("get metadata account: %w", err)
	}
	if info == nil {
		return nil, nil
	}

	meta := &domain.TokenMetadata{Mint: mint}
	parseMetaplexData(info.Data, meta)
	return meta, nil
}

// MetadataPDA derives the Metaplex metadata PDA for a given mint.
// Seeds: ["metadata", metaplex_program_id, mint]
func MetadataPDA(mint string) (string, error) {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return "", fmt.Errorf("decode mint: %w", err)
	}
	programBytes, err := base58.Decode(MetaplexProgramID)
	if err != nil {
		return "", fmt.Errorf("decode program id: %w", err)
	}

	if len(mintBytes) != 32 || len(programBytes) != 32 {
		return "", fmt.Errorf("mint %s is not a 32-byte public key", mint)
	}

	pda := derivePDA([][]byte{[]byte("metadata"), programBytes, mintBytes}, programBytes)
	if pda == "" {
		return "", fmt.Errorf("no valid bump for mint %s", mint)
	}
	return pda, nil
}

// parseMetaplexData parses Metaplex Token Metadata account data.
// Metaplex Metadata layout:
// - key: u8 (1 byte, should be 4 for MetadataV1)
// - updateAuthority: Pubkey (32 bytes)
// - mint: Pubkey (32 bytes)
// - name: String (4 + length bytes, max 32 chars)
// - symbol: String (4 + length bytes, max 10 chars)
func parseMetaplexData(data string, meta *domain.TokenMetadata) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}

	if len(decoded) < 100 || decoded[0] != 4 {
		return
	}

	// key(1) + updateAuthority(32) + mint(32)
	offset := 65

	name, offset, ok := readBorshString(decoded, offset, 100)
	if !ok {
		return
	}
	if name != "" {
		meta.Name = &name
	}

	symbol, _, ok := readBorshString(decoded, offset, 20)
	if ok && symbol != "" {
		meta.Symbol = &symbol
	}
}

// readBorshString reads a u32-length-prefixed string padded with NUL bytes.
func readBorshString(b []byte, offset, maxLen int) (string, int, bool) {
	if offset+4 > len(b) {
		return "", offset, false
	}
	n := int(binary.LittleEndian.Uint32(b[offset:]))
	offset += 4
	if n > maxLen || offset+n > len(b) {
		return "", offset, false
	}
	s := strings.TrimRight(string(b[offset:offset+n]), "\x00")
	return strings.TrimSpace(s), offset + n, true
}

// derivePDA finds the first bump (from 255 down) whose
// sha256(seeds || bump || programID || "ProgramDerivedAddress") is off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !IsOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

// IsOnCurve reports whether point is a valid compressed ed25519 point.
func IsOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
