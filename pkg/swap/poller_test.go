package swap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// scriptedRPC replays one scripted reply per status poll.
type scriptedRPC struct {
	replies []statusReply
	calls   int
	txCalls int
	// txErr makes GetTransaction fail, simulating details not yet
	// retrievable.
	txErr error
}

type statusReply struct {
	status *rpc.SignatureStatusesResult
	err    error
}

func (s *scriptedRPC) GetSignatureStatuses(_ context.Context, _ bool, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	var reply statusReply
	if s.calls < len(s.replies) {
		reply = s.replies[s.calls]
	} else if len(s.replies) > 0 {
		reply = s.replies[len(s.replies)-1]
	}
	s.calls++
	if reply.err != nil {
		return nil, reply.err
	}
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{reply.status}}, nil
}

func (s *scriptedRPC) GetTransaction(_ context.Context, _ solana.Signature, _ *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error) {
	s.txCalls++
	if s.txErr != nil {
		return nil, s.txErr
	}
	return &rpc.GetTransactionResult{}, nil
}

func newTestPoller(rpcClient StatusRPC) *Poller {
	p := NewPoller(rpcClient, zerolog.Nop())
	p.Interval = time.Millisecond
	p.TransientBackoff = time.Millisecond
	return p
}

func pendingStatus() *rpc.SignatureStatusesResult {
	return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusProcessed}
}

func finalizedStatus() *rpc.SignatureStatusesResult {
	return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusFinalized}
}

func TestPollerConfirmsOnThirdAttempt(t *testing.T) {
	mock := &scriptedRPC{replies: []statusReply{
		{status: pendingStatus()},
		{status: pendingStatus()},
		{status: finalizedStatus()},
	}}
	p := newTestPoller(mock)

	outcome := p.Await(context.Background(), solana.Signature{})

	require.Equal(t, OutcomeConfirmed, outcome)
	require.Equal(t, 3, mock.calls)
	require.Equal(t, 1, mock.txCalls)
}

func TestPollerFailsImmediatelyOnChainError(t *testing.T) {
	mock := &scriptedRPC{replies: []statusReply{
		{status: pendingStatus()},
		{status: &rpc.SignatureStatusesResult{Err: map[string]any{"InstructionError": []any{}}}},
	}}
	p := newTestPoller(mock)

	outcome := p.Await(context.Background(), solana.Signature{})

	require.Equal(t, OutcomeFailed, outcome)
	require.Equal(t, 2, mock.calls)
	require.Equal(t, 0, mock.txCalls)
}

func TestPollerOptimisticFallbackAfterBudget(t *testing.T) {
	mock := &scriptedRPC{replies: []statusReply{{status: pendingStatus()}}}
	p := newTestPoller(mock)

	outcome := p.Await(context.Background(), solana.Signature{})

	require.Equal(t, OutcomeConfirmed, outcome)
	require.Equal(t, 60, mock.calls)
}

func TestPollerTransientErrorsConsumeAttempts(t *testing.T) {
	mock := &scriptedRPC{replies: []statusReply{{err: errors.New("rpc hiccup")}}}
	p := newTestPoller(mock)
	p.MaxAttempts = 5

	outcome := p.Await(context.Background(), solana.Signature{})

	// Transient failures are swallowed; with no terminal signal the
	// poller presumes success once the budget is spent.
	require.Equal(t, OutcomeConfirmed, outcome)
	require.Equal(t, 5, mock.calls)
}

func TestPollerKeepsPollingWhenDetailsUnavailable(t *testing.T) {
	mock := &scriptedRPC{
		replies: []statusReply{{status: finalizedStatus()}},
		txErr:   errors.New("not yet available"),
	}
	p := newTestPoller(mock)
	p.MaxAttempts = 4

	outcome := p.Await(context.Background(), solana.Signature{})

	// Status says finalized but details never materialize; the budget
	// runs out and the optimistic fallback applies.
	require.Equal(t, OutcomeConfirmed, outcome)
	require.Equal(t, 4, mock.calls)
	require.Equal(t, 4, mock.txCalls)
}
