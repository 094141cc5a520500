// Package balance reads native and token-account balances for a
// connected account. Fetch failures degrade to unknown balances rather
// than surfacing errors; this is a non-critical read path.
package balance

import (
	"context"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"solswap/pkg/tokens"
)

// RPC is the slice of the Solana RPC client the fetcher needs.
type RPC interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
}

// Snapshot maps mint address to decimal balance. A missing key means the
// balance is unknown (not loaded, or the fetch failed).
type Snapshot map[string]float64

// Lookup returns the balance for a mint and whether it is known.
func (s Snapshot) Lookup(mint string) (float64, bool) {
	v, ok := s[mint]
	return v, ok
}

// Fetcher queries balances for every token in the registry.
type Fetcher struct {
	rpc        RPC
	registry   *tokens.Registry
	commitment rpc.CommitmentType
	log        zerolog.Logger
}

// NewFetcher creates a balance fetcher.
func NewFetcher(rpcClient RPC, registry *tokens.Registry, commitment rpc.CommitmentType, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		rpc:        rpcClient,
		registry:   registry,
		commitment: commitment,
		log:        log,
	}
}

// Fetch reads balances for the owner. Per-token failures are logged and
// skipped, leaving those mints unknown in the returned snapshot. The
// snapshot is a fresh map every call; callers replace, never merge.
func (f *Fetcher) Fetch(ctx context.Context, owner solana.PublicKey) Snapshot {
	snap := make(Snapshot)

	for _, token := range f.registry.Tokens() {
		if token.IsNative() {
			res, err := f.rpc.GetBalance(ctx, owner, f.commitment)
			if err != nil {
				f.log.Debug().Err(err).Msg("native balance fetch failed")
				continue
			}
			snap[token.Mint] = float64(res.Value) / 1e9
			continue
		}

		mint, err := solana.PublicKeyFromBase58(token.Mint)
		if err != nil {
			f.log.Debug().Err(err).Str("mint", token.Mint).Msg("bad registry mint")
			continue
		}
		ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
		if err != nil {
			f.log.Debug().Err(err).Str("mint", token.Mint).Msg("derive token account failed")
			continue
		}

		res, err := f.rpc.GetTokenAccountBalance(ctx, ata, f.commitment)
		if err != nil {
			// Account may simply not exist yet; either way the balance
			// stays unknown.
			f.log.Debug().Err(err).Str("mint", token.Mint).Msg("token balance fetch failed")
			continue
		}
		if res.Value == nil {
			continue
		}
		snap[token.Mint] = uiAmount(res.Value)
	}

	return snap
}

func uiAmount(v *rpc.UiTokenAmount) float64 {
	if v.UiAmount != nil {
		return *v.UiAmount
	}
	raw, err := strconv.ParseFloat(v.Amount, 64)
	if err != nil {
		return 0
	}
	return raw / math.Pow(10, float64(v.Decimals))
}
