// Package wallet abstracts the signing collaborator: it holds the user's
// key material, and signs and broadcasts transactions built elsewhere.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"solswap/pkg/types"
)

// Wallet exposes connect/disconnect, the current public account, and a
// sign-and-send operation for a pre-built transaction.
type Wallet interface {
	Connect(ctx context.Context) error
	Disconnect()
	Connected() bool
	PublicKey() solana.PublicKey
	SignAndSend(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// Sender is the slice of the RPC client the wallet needs to broadcast.
type Sender interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// Approver decides whether a transaction may be signed. Returning false
// is the local analogue of the user declining in a wallet popup.
type Approver func(tx *solana.Transaction) bool

// Keypair is a Wallet backed by a locally held private key.
type Keypair struct {
	key    solana.PrivateKey
	sender Sender
	log    zerolog.Logger

	approve Approver

	mu        sync.Mutex
	connected bool
}

// NewKeypair builds a keypair wallet from a base58-encoded secret key.
// approve may be nil, in which case every transaction is approved.
func NewKeypair(secretBase58 string, sender Sender, approve Approver, log zerolog.Logger) (*Keypair, error) {
	key, err := solana.PrivateKeyFromBase58(secretBase58)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Keypair{
		key:     key,
		sender:  sender,
		approve: approve,
		log:     log,
	}, nil
}

// Connect marks the wallet as connected. A keypair wallet has no
// handshake; the method exists so callers treat local and remote
// wallets uniformly.
func (w *Keypair) Connect(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = true
	w.log.Debug().Str("account", w.key.PublicKey().String()).Msg("wallet connected")
	return nil
}

// Disconnect marks the wallet as disconnected.
func (w *Keypair) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = false
}

// Connected reports whether Connect has been called.
func (w *Keypair) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// PublicKey returns the wallet's public account.
func (w *Keypair) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// SignAndSend signs the transaction with the wallet key and broadcasts
// it. It returns as soon as the broadcast is accepted; confirmation is
// the caller's concern.
func (w *Keypair) SignAndSend(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	if !w.Connected() {
		return solana.Signature{}, fmt.Errorf("%w: wallet not connected", types.ErrPreconditionFailed)
	}

	if w.approve != nil && !w.approve(tx) {
		return solana.Signature{}, fmt.Errorf("%w: transaction was cancelled by user", types.ErrUserRejected)
	}

	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.key.PublicKey()) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := w.sender.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", types.ErrBroadcastFailed, err)
	}

	w.log.Debug().Str("signature", sig.String()).Msg("transaction broadcast")
	return sig, nil
}
