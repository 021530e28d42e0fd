package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-scanner/internal/domain"
)

func TestValidate_Accepts(t *testing.T) {
	cases := []string{
		"So11111111111111111111111111111111111111112",  // 43
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", // 44
		"  EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v\n",
		strings.Repeat("0", 44), // charset check only, not base58
	}

	for _, in := range cases {
		id, err := Validate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, strings.TrimSpace(in), id.String())
	}
}

func TestValidate_RejectsLength(t *testing.T) {
	for _, n := range []int{0, 1, 32, 42, 45, 88} {
		_, err := Validate(strings.Repeat("a", n))
		require.Error(t, err)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, n, vErr.Length)
		assert.Contains(t, vErr.Reason, "length")
	}
}

func TestValidate_RejectsCharset(t *testing.T) {
	cases := []string{
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1-",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGG ZwyTDt1v",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1ü",
		"/start_EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGk",
	}

	for _, in := range cases {
		_, err := Validate(in)
		require.Error(t, err, "input %q", in)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, len(strings.TrimSpace(in)), vErr.Length)
	}
}

func TestValidate_ErrorMessageNamesLength(t *testing.T) {
	_, err := Validate("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length 3")
}
