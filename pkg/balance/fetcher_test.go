package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"solswap/pkg/tokens"
	"solswap/pkg/types"
)

type fakeRPC struct {
	lamports    uint64
	balanceErr  error
	tokenAmount map[solana.PublicKey]*rpc.UiTokenAmount
	tokenErr    error
}

func (f *fakeRPC) GetBalance(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return &rpc.GetBalanceResult{Value: f.lamports}, nil
}

func (f *fakeRPC) GetTokenAccountBalance(_ context.Context, account solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	amount, ok := f.tokenAmount[account]
	if !ok {
		return nil, errors.New("could not find account")
	}
	return &rpc.GetTokenAccountBalanceResult{Value: amount}, nil
}

func ata(t *testing.T, owner solana.PublicKey, mint string) solana.PublicKey {
	t.Helper()
	mintKey, err := solana.PublicKeyFromBase58(mint)
	require.NoError(t, err)
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mintKey)
	require.NoError(t, err)
	return addr
}

func TestFetchReadsNativeAndTokenBalances(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	registry := tokens.Default()

	usdc, err := registry.BySymbol("USDC")
	require.NoError(t, err)

	ui := 12.5
	mock := &fakeRPC{
		lamports: 2_500_000_000,
		tokenAmount: map[solana.PublicKey]*rpc.UiTokenAmount{
			ata(t, owner, usdc.Mint): {Amount: "12500000", Decimals: 6, UiAmount: &ui},
		},
	}
	f := NewFetcher(mock, registry, rpc.CommitmentConfirmed, zerolog.Nop())

	snap := f.Fetch(context.Background(), owner)

	sol, ok := snap.Lookup(types.NativeMint)
	require.True(t, ok)
	require.InDelta(t, 2.5, sol, 1e-9)

	got, ok := snap.Lookup(usdc.Mint)
	require.True(t, ok)
	require.InDelta(t, 12.5, got, 1e-9)

	// USDUC has no token account; its balance stays unknown.
	usduc, err := registry.BySymbol("USDUC")
	require.NoError(t, err)
	_, ok = snap.Lookup(usduc.Mint)
	require.False(t, ok)
}

func TestFetchSwallowsErrors(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mock := &fakeRPC{
		balanceErr: errors.New("rpc down"),
		tokenErr:   errors.New("rpc down"),
	}
	f := NewFetcher(mock, tokens.Default(), rpc.CommitmentConfirmed, zerolog.Nop())

	snap := f.Fetch(context.Background(), owner)

	require.Empty(t, snap, "a failed fetch clears rather than keeps stale balances")
}

func TestTrackerReplacesSnapshotWholesale(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mock := &fakeRPC{lamports: 1_000_000_000}
	f := NewFetcher(mock, tokens.Default(), rpc.CommitmentConfirmed, zerolog.Nop())
	tr := NewTracker(f, owner)

	require.Nil(t, tr.Snapshot(), "balances start unknown")

	tr.Refresh(context.Background())
	first := tr.Snapshot()
	sol, ok := first.Lookup(types.NativeMint)
	require.True(t, ok)
	require.InDelta(t, 1.0, sol, 1e-9)

	// The RPC starts failing; a refresh drops to unknown instead of
	// keeping stale numbers.
	mock.balanceErr = errors.New("rpc down")
	mock.tokenErr = errors.New("rpc down")
	tr.Refresh(context.Background())
	_, ok = tr.Snapshot().Lookup(types.NativeMint)
	require.False(t, ok)

	tr.Clear()
	require.Nil(t, tr.Snapshot())
}
