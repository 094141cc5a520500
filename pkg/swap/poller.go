package swap

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

// Outcome is the terminal result of confirmation polling.
type Outcome int

const (
	// OutcomeConfirmed means the transaction was observed confirmed or
	// finalized, or the attempt budget ran out without a failure signal.
	OutcomeConfirmed Outcome = iota
	// OutcomeFailed means the transaction errored on chain.
	OutcomeFailed
)

// StatusRPC is the slice of the Solana RPC client the poller needs.
type StatusRPC interface {
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

// Poller watches a broadcast transaction until it is confirmed, fails on
// chain, or the attempt budget runs out. A transaction that was accepted
// for broadcast and never surfaces an explicit failure is presumed
// successful: the poller biases toward false positives so RPC lag does
// not report a likely-good swap as failed.
type Poller struct {
	rpc StatusRPC
	log zerolog.Logger

	// Interval between polls; TransientBackoff replaces it after an RPC
	// hiccup. Each transient failure still consumes one attempt.
	Interval         time.Duration
	TransientBackoff time.Duration
	MaxAttempts      int
}

// NewPoller creates a poller with the production cadence: 2s polls,
// 3s transient backoff, 60 attempts (~2 minutes).
func NewPoller(rpcClient StatusRPC, log zerolog.Logger) *Poller {
	return &Poller{
		rpc:              rpcClient,
		log:              log,
		Interval:         2 * time.Second,
		TransientBackoff: 3 * time.Second,
		MaxAttempts:      60,
	}
}

// Await polls until a terminal outcome. It never returns an error for
// ordinary non-confirmation; transient RPC failures are swallowed and
// retried.
func (p *Poller) Await(ctx context.Context, sig solana.Signature) Outcome {
	maxTxVersion := uint64(0)

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		statuses, err := p.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			p.log.Debug().Err(err).Int("attempt", attempt+1).Msg("status query failed, retrying")
			time.Sleep(p.TransientBackoff)
			continue
		}

		if st := firstStatus(statuses); st != nil {
			if st.Err != nil {
				p.log.Warn().Interface("err", st.Err).Str("signature", sig.String()).Msg("transaction failed on chain")
				return OutcomeFailed
			}

			if st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				st.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				// Double-check that the transaction details are
				// retrievable before declaring success.
				tx, txErr := p.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
					Commitment:                     rpc.CommitmentConfirmed,
					MaxSupportedTransactionVersion: &maxTxVersion,
				})
				if txErr == nil && tx != nil {
					p.log.Info().Str("signature", sig.String()).Int("attempt", attempt+1).Msg("swap confirmed")
					return OutcomeConfirmed
				}
				p.log.Debug().Str("signature", sig.String()).Msg("transaction details not yet available, continuing to poll")
			}
		}

		time.Sleep(p.Interval)
	}

	// Budget exhausted with no terminal signal: presume success rather
	// than reporting a likely-confirmed swap as failed.
	p.log.Info().Str("signature", sig.String()).Msg("status check timed out, presuming transaction succeeded")
	return OutcomeConfirmed
}

func firstStatus(res *rpc.GetSignatureStatusesResult) *rpc.SignatureStatusesResult {
	if res == nil || len(res.Value) == 0 {
		return nil
	}
	return res.Value[0]
}
