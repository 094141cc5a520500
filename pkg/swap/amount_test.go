package swap

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"solswap/pkg/types"
)

func TestToSmallestUnitFloors(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		want     uint64
	}{
		{"10", 6, 10_000_000},
		{"0.5", 9, 500_000_000},
		{"1.2345678", 6, 1_234_567},
		{"0.0000001", 6, 0},
		{"1000000", 6, 1_000_000_000_000},
		{"3", 0, 3},
	}

	for _, tc := range cases {
		got, err := ToSmallestUnit(tc.amount, tc.decimals)
		require.NoError(t, err, "amount %q", tc.amount)
		require.Equal(t, tc.want, got, "amount %q", tc.amount)
	}
}

func TestToSmallestUnitMatchesFloorProperty(t *testing.T) {
	amounts := []float64{0.1, 0.33, 1, 2.5, 17.777777, 999.999999}
	for _, a := range amounts {
		got, err := ToSmallestUnit(strconv.FormatFloat(a, 'f', -1, 64), 6)
		require.NoError(t, err)
		require.Equal(t, uint64(math.Floor(a*1e6)), got)
	}
}

func TestToSmallestUnitRejectsBadInput(t *testing.T) {
	for _, amount := range []string{"", "abc", "-1", "0", "NaN", "+Inf", "1e400"} {
		_, err := ToSmallestUnit(amount, 6)
		require.ErrorIs(t, err, types.ErrInvalidAmount, "amount %q", amount)
	}
}

func TestFromSmallestUnit(t *testing.T) {
	require.Equal(t, "10.000000", FromSmallestUnit(10_000_000, 6))
	require.Equal(t, "0.500000", FromSmallestUnit(500_000_000, 9))
	require.Equal(t, "0.000001", FromSmallestUnit(1, 6))
}
