package cmd

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"solswap/config"
	"solswap/pkg/balance"
	"solswap/pkg/client"
	"solswap/pkg/logger"
	"solswap/pkg/swap"
	"solswap/pkg/tokens"
	"solswap/pkg/wallet"
)

// app bundles the wired components every command draws from.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *tokens.Registry
	rpc      *rpc.Client
	jupiter  *client.JupiterClient
	wallet   *wallet.Keypair
	tracker  *balance.Tracker
}

// newApp loads configuration and wires the component stack. The wallet
// is only constructed when requireWallet is set; approve may be nil for
// auto-approval.
func newApp(requireWallet bool, approve wallet.Approver, verbose bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level)

	rpcClient := rpc.New(cfg.RPCURL())
	registry := tokens.Default()
	jupiter := client.NewJupiterClient(cfg.JupiterBaseURL, cfg.ReferralAccount, cfg.PriorityFeeLamports, log)

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		rpc:      rpcClient,
		jupiter:  jupiter,
	}

	if requireWallet {
		if err := cfg.RequireWallet(); err != nil {
			return nil, err
		}
		w, err := wallet.NewKeypair(cfg.PrivateKey, rpcClient, approve, log)
		if err != nil {
			return nil, err
		}
		a.wallet = w

		fetcher := balance.NewFetcher(rpcClient, registry, a.commitment(), log)
		a.tracker = balance.NewTracker(fetcher, w.PublicKey())
	}

	return a, nil
}

// newController builds a lifecycle controller on top of the wired
// components. Commands without a wallet pass nil balances through.
func (a *app) newController() *swap.Controller {
	var w wallet.Wallet
	if a.wallet != nil {
		w = a.wallet
	}
	executor := swap.NewExecutor(a.jupiter, w, a.commitment(), a.log)
	poller := swap.NewPoller(a.rpc, a.log)

	var balances swap.BalanceService
	if a.tracker != nil {
		balances = a.tracker
	}
	return swap.NewController(a.jupiter, executor, poller, balances, a.log)
}

func (a *app) commitment() rpc.CommitmentType {
	switch strings.ToLower(a.cfg.Commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}

// formatBalance renders a balance the way the swap form shows it; nil
// means the balance is unknown.
func formatBalance(v *float64) string {
	if v == nil {
		return "..."
	}
	b := *v
	switch {
	case b == 0:
		return "0"
	case b < 0.001:
		return "< 0.001"
	case b < 1:
		return fmt.Sprintf("%.3f", b)
	case b < 1000:
		return fmt.Sprintf("%.2f", b)
	default:
		return fmt.Sprintf("%.2f", b)
	}
}

func explorerURL(signature string) string {
	return "https://solscan.io/tx/" + signature
}
