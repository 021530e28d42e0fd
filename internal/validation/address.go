// Package validation checks raw user input before any upstream call is made.
package validation

import (
	"strings"

	"solana-token-scanner/internal/domain"
)

// Accepted address length window. Base58-encoded 32-byte public keys are 43 or 44
// characters long.
const (
	MinAddressLength = 43
	MaxAddressLength = 44
)

// Validate checks that text looks like a Solana account address.
// Leading and trailing whitespace is ignored.
func Validate(text string) (domain.AssetIdentifier, error) {
	addr := strings.TrimSpace(text)
	n := len(addr)

	if n < MinAddressLength || n > MaxAddressLength {
		return "", &domain.ValidationError{
			Input:  addr,
			Length: n,
			Reason: "length must be between 43 and 44 characters",
		}
	}

	for i := 0; i < n; i++ {
		if !isAlphanumeric(addr[i]) {
			return "", &domain.ValidationError{
				Input:  addr,
				Length: n,
				Reason: "only alphanumeric characters are allowed",
			}
		}
	}

	return domain.AssetIdentifier(addr), nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
