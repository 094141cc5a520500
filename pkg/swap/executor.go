package swap

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"solswap/pkg/types"
	"solswap/pkg/wallet"
)

// TransactionBuilder requests a ready-to-sign transaction from the
// aggregator for a quote and account.
type TransactionBuilder interface {
	BuildSwapTransaction(ctx context.Context, quote *types.Quote, user solana.PublicKey) (*solana.Transaction, error)
}

// Executor turns a quote into a broadcast transaction: it fetches the
// serialized swap from the aggregator and delegates signing and
// broadcast to the wallet. It does not wait for confirmation.
type Executor struct {
	builder    TransactionBuilder
	wallet     wallet.Wallet
	commitment rpc.CommitmentType
	maxRetries uint
	log        zerolog.Logger
}

// NewExecutor creates an executor. commitment is used as the preflight
// commitment when broadcasting.
func NewExecutor(builder TransactionBuilder, w wallet.Wallet, commitment rpc.CommitmentType, log zerolog.Logger) *Executor {
	return &Executor{
		builder:    builder,
		wallet:     w,
		commitment: commitment,
		maxRetries: 3,
		log:        log,
	}
}

// Execute submits a swap for the given quote and returns the transaction
// signature immediately after broadcast acceptance. It fails with
// ErrPreconditionFailed before any network call when the wallet is not
// connected or the quote is nil.
func (e *Executor) Execute(ctx context.Context, quote *types.Quote) (solana.Signature, error) {
	if e.wallet == nil || !e.wallet.Connected() {
		return solana.Signature{}, fmt.Errorf("%w: wallet not connected", types.ErrPreconditionFailed)
	}
	if quote == nil {
		return solana.Signature{}, fmt.Errorf("%w: no quote available", types.ErrPreconditionFailed)
	}

	tx, err := e.builder.BuildSwapTransaction(ctx, quote, e.wallet.PublicKey())
	if err != nil {
		return solana.Signature{}, err
	}

	maxRetries := e.maxRetries
	sig, err := e.wallet.SignAndSend(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: e.commitment,
		MaxRetries:          &maxRetries,
	})
	if err != nil {
		return solana.Signature{}, err
	}

	e.log.Info().
		Str("signature", sig.String()).
		Str("inputMint", quote.InputMint).
		Str("outputMint", quote.OutputMint).
		Msg("swap broadcast")

	return sig, nil
}
