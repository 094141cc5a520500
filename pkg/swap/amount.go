package swap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"solswap/pkg/types"
)

// ToSmallestUnit converts a human-entered decimal amount into the token's
// smallest unit: floor(amount * 10^decimals). Fractional dust below the
// token's precision is truncated, not rounded.
func ToSmallestUnit(amount string, decimals uint8) (uint64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidAmount, amount)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("%w: amount must be a positive number", types.ErrInvalidAmount)
	}

	raw := math.Floor(f * math.Pow(10, float64(decimals)))
	if raw >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: amount out of range", types.ErrInvalidAmount)
	}
	return uint64(raw), nil
}

// FromSmallestUnit formats an integer amount for display, fixed to six
// fractional digits.
func FromSmallestUnit(raw uint64, decimals uint8) string {
	return strconv.FormatFloat(float64(raw)/math.Pow(10, float64(decimals)), 'f', 6, 64)
}
