package types

import "errors"

// Swap error taxonomy. Callers classify with errors.Is; wrapped messages
// carry the underlying detail.
var (
	// ErrInvalidAmount means the entered amount did not parse to a
	// positive, finite number. Local validation only.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNetwork means an HTTP call to the aggregator did not succeed.
	ErrNetwork = errors.New("network error")

	// ErrPreconditionFailed means a swap was attempted without a
	// connected wallet or without a quote. No network call was made.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrUserRejected means the wallet declined to sign. Not a system
	// error.
	ErrUserRejected = errors.New("user rejected")

	// ErrBroadcastFailed means the wallet or RPC rejected the signed
	// transaction.
	ErrBroadcastFailed = errors.New("broadcast failed")

	// ErrOnChainFailure means the transaction was mined but errored.
	ErrOnChainFailure = errors.New("transaction failed on chain")
)
