// Package tokens holds the static token registry the swap UI offers.
package tokens

import (
	"fmt"
	"strings"

	"solswap/pkg/types"
)

// Registry maps symbols and mints to token metadata. Immutable after
// construction.
type Registry struct {
	ordered  []types.Token
	bySymbol map[string]types.Token
	byMint   map[string]types.Token
}

// New builds a registry from the given tokens, preserving order.
func New(list ...types.Token) *Registry {
	r := &Registry{
		bySymbol: make(map[string]types.Token, len(list)),
		byMint:   make(map[string]types.Token, len(list)),
	}
	for _, t := range list {
		r.ordered = append(r.ordered, t)
		r.bySymbol[strings.ToUpper(t.Symbol)] = t
		r.byMint[t.Mint] = t
	}
	return r
}

// Default returns the registry the application ships with.
func Default() *Registry {
	return New(
		types.Token{
			Mint:     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
			LogoURI:  "/images/usdc-logo.jpg",
		},
		types.Token{
			Mint:     types.NativeMint,
			Symbol:   "SOL",
			Name:     "Solana",
			Decimals: 9,
			LogoURI:  "/images/solana-logo.png",
		},
		types.Token{
			Mint:     "CB9dDufT3ZuQXqqSfa1c5kY935TEreyBw9XJXxHKpump",
			Symbol:   "USDUC",
			Name:     "USDUC Token",
			Decimals: 6,
			LogoURI:  "/images/usduc-logo.png",
		},
	)
}

// BySymbol looks up a token by its symbol, case-insensitively.
func (r *Registry) BySymbol(symbol string) (types.Token, error) {
	t, ok := r.bySymbol[NormalizeSymbol(symbol)]
	if !ok {
		return types.Token{}, fmt.Errorf("token '%s' not found", symbol)
	}
	return t, nil
}

// ByMint looks up a token by its mint address.
func (r *Registry) ByMint(mint string) (types.Token, bool) {
	t, ok := r.byMint[mint]
	return t, ok
}

// Tokens returns the registry contents in declaration order.
func (r *Registry) Tokens() []types.Token {
	out := make([]types.Token, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// NormalizeSymbol uppercases a symbol and resolves common aliases.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WSOL": "SOL",
	}
	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}
	return symbol
}
