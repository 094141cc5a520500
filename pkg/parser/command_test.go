package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"solswap/pkg/types"
)

func TestParseSwapCommand(t *testing.T) {
	cases := []struct {
		command string
		want    types.SwapRequest
	}{
		{"10 USDC to USDUC", types.SwapRequest{Amount: "10", InputSymbol: "USDC", OutputSymbol: "USDUC"}},
		{"swap 0.5 SOL to USDC", types.SwapRequest{Amount: "0.5", InputSymbol: "SOL", OutputSymbol: "USDC"}},
		{"max usdc to sol", types.SwapRequest{Amount: "max", InputSymbol: "USDC", OutputSymbol: "SOL"}},
		{"  1.25 sol TO usduc  ", types.SwapRequest{Amount: "1.25", InputSymbol: "SOL", OutputSymbol: "USDUC"}},
	}

	for _, tc := range cases {
		got, err := ParseSwapCommand(tc.command)
		require.NoError(t, err, "command %q", tc.command)
		require.Equal(t, tc.want, *got, "command %q", tc.command)
	}
}

func TestParseSwapCommandInvalid(t *testing.T) {
	for _, command := range []string{"", "USDC to SOL", "10 USDC", "ten USDC to SOL", "10 USDC into SOL"} {
		_, err := ParseSwapCommand(command)
		require.Error(t, err, "command %q", command)
	}
}

func TestValidateSwapRequest(t *testing.T) {
	valid := &types.SwapRequest{Amount: "10", InputSymbol: "USDC", OutputSymbol: "SOL"}
	require.NoError(t, ValidateSwapRequest(valid))

	samePair := &types.SwapRequest{Amount: "10", InputSymbol: "USDC", OutputSymbol: "usdc"}
	require.Error(t, ValidateSwapRequest(samePair))

	missing := &types.SwapRequest{InputSymbol: "USDC", OutputSymbol: "SOL"}
	require.Error(t, ValidateSwapRequest(missing))
}
