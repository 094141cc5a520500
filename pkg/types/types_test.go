package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteDecodesAggregatorResponse(t *testing.T) {
	body := `{
		"inputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"inAmount": "10000000",
		"outputMint": "So11111111111111111111111111111111111111112",
		"outAmount": "48123456",
		"otherAmountThreshold": "47882839",
		"swapMode": "ExactIn",
		"slippageBps": 50,
		"priceImpactPct": "0.0042",
		"routePlan": [
			{"swapInfo": {"ammKey": "amm1", "label": "Orca", "inputMint": "a", "outputMint": "b", "inAmount": "1", "outAmount": "2"}, "percent": 60},
			{"swapInfo": {"ammKey": "amm2", "inputMint": "b", "outputMint": "c", "inAmount": "2", "outAmount": "3"}, "percent": 40}
		]
	}`

	var q Quote
	require.NoError(t, json.Unmarshal([]byte(body), &q))

	out, err := q.OutAmountRaw()
	require.NoError(t, err)
	require.Equal(t, uint64(48123456), out)

	minOut, err := q.MinReceivedRaw()
	require.NoError(t, err)
	require.Equal(t, uint64(47882839), minOut)

	require.InDelta(t, 0.0042, q.PriceImpact(), 1e-12)
	require.Len(t, q.RoutePlan, 2)
	require.Equal(t, "Orca", q.RoutePlan[0].SwapInfo.Label)
}

func TestQuoteHelpersOnBadNumbers(t *testing.T) {
	q := Quote{OutAmount: "not-a-number", OtherAmountThreshold: "", PriceImpactPct: "?"}

	_, err := q.OutAmountRaw()
	require.Error(t, err)

	_, err = q.MinReceivedRaw()
	require.Error(t, err)

	require.Zero(t, q.PriceImpact())
}
