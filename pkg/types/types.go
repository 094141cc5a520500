package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Token describes a tradable asset from the static registry.
type Token struct {
	Mint     string `json:"mint"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// IsNative reports whether the token is wrapped SOL.
func (t Token) IsNative() bool {
	return t.Mint == NativeMint
}

// NativeMint is the wrapped-SOL mint address.
const NativeMint = "So11111111111111111111111111111111111111112"

// SwapRequest represents a user's swap command before token resolution.
type SwapRequest struct {
	Amount       string
	InputSymbol  string
	OutputSymbol string
	SlippageBps  int
}

// RouteSwapInfo identifies a single AMM hop inside a route plan.
type RouteSwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount,omitempty"`
	FeeMint    string `json:"feeMint,omitempty"`
}

// RouteHop is one step of the aggregator's route plan.
type RouteHop struct {
	SwapInfo RouteSwapInfo `json:"swapInfo"`
	Percent  int           `json:"percent"`
}

// Quote is the aggregator's response for a single quote request. Amounts
// are integer strings in each token's smallest unit. Raw holds the exact
// response body so the swap-build call can echo it back unmodified.
type Quote struct {
	InputMint            string          `json:"inputMint"`
	InAmount             string          `json:"inAmount"`
	OutputMint           string          `json:"outputMint"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode,omitempty"`
	SlippageBps          int             `json:"slippageBps"`
	PlatformFee          json.RawMessage `json:"platformFee,omitempty"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RouteHop      `json:"routePlan"`

	Raw json.RawMessage `json:"-"`
}

// OutAmountRaw parses the integer output amount.
func (q *Quote) OutAmountRaw() (uint64, error) {
	v, err := strconv.ParseUint(q.OutAmount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse outAmount %q: %w", q.OutAmount, err)
	}
	return v, nil
}

// MinReceivedRaw parses the minimum-acceptable output threshold.
func (q *Quote) MinReceivedRaw() (uint64, error) {
	v, err := strconv.ParseUint(q.OtherAmountThreshold, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse otherAmountThreshold %q: %w", q.OtherAmountThreshold, err)
	}
	return v, nil
}

// PriceImpact returns the price impact as a percentage, or 0 when the
// aggregator omitted it.
func (q *Quote) PriceImpact() float64 {
	f, err := strconv.ParseFloat(q.PriceImpactPct, 64)
	if err != nil {
		return 0
	}
	return f
}
