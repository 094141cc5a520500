// Package swap implements the swap lifecycle: quote, sign, submit,
// confirm. The controller owns all mutable state; the presentation
// layer reads value snapshots and never mutates in place.
package swap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solswap/pkg/types"
)

// Phase is the lifecycle controller's externally visible state.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseQuoting              Phase = "quoting"
	PhaseQuoteReady           Phase = "quote_ready"
	PhaseSubmitting           Phase = "submitting"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseSucceeded            Phase = "succeeded"
	PhaseFailed               Phase = "failed"
)

// QuoteService fetches a quote for an integer amount in the input
// token's smallest unit.
type QuoteService interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*types.Quote, error)
}

// BalanceService refreshes the balance snapshot for the connected
// account.
type BalanceService interface {
	Refresh(ctx context.Context)
}

// State is a value snapshot of the controller for the presentation
// layer. Internal counters (generations, retry budgets) are not
// exposed.
type State struct {
	Phase        Phase
	InputToken   types.Token
	OutputToken  types.Token
	InputAmount  string
	OutputAmount string
	SlippageBps  int
	Quote        *types.Quote
	Signature    string
	Message      string
	Err          error
}

// Controller orchestrates the swap lifecycle and guards every state
// transition behind one mutex. Quote responses carry a generation
// token: a response from a superseded request never overwrites newer
// state.
type Controller struct {
	quotes   QuoteService
	executor *Executor
	poller   *Poller
	balances BalanceService
	log      zerolog.Logger

	// Debounce is the quiescence window before a quote fetch fires;
	// RefreshDelay is the pause before the post-confirmation balance
	// refresh.
	Debounce     time.Duration
	RefreshDelay time.Duration

	mu         sync.Mutex
	state      State
	quoteGen   uint64
	quoteTimer *time.Timer
	attemptGen uint64
}

// NewController wires the lifecycle pieces together. balances may be
// nil when no account is connected.
func NewController(quotes QuoteService, executor *Executor, poller *Poller, balances BalanceService, log zerolog.Logger) *Controller {
	return &Controller{
		quotes:       quotes,
		executor:     executor,
		poller:       poller,
		balances:     balances,
		log:          log,
		Debounce:     500 * time.Millisecond,
		RefreshDelay: 2 * time.Second,
		state:        State{Phase: PhaseIdle},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetTokens selects the input and output tokens and drops any quote
// built for the previous pair.
func (c *Controller) SetTokens(input, output types.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.InputToken = input
	c.state.OutputToken = output
	c.clearQuoteLocked()
	c.scheduleQuoteLocked()
}

// FlipTokens swaps the selected tokens, carrying the displayed output
// amount over as the new input amount.
func (c *Controller) FlipTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.InputToken, c.state.OutputToken = c.state.OutputToken, c.state.InputToken
	c.state.InputAmount = c.state.OutputAmount
	c.clearQuoteLocked()
	c.scheduleQuoteLocked()
}

// SetSlippageBps updates the slippage tolerance and re-quotes.
func (c *Controller) SetSlippageBps(bps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SlippageBps = bps
	c.clearQuoteLocked()
	c.scheduleQuoteLocked()
}

// SetInputAmount records a keystroke in the amount field. A pending
// scheduled quote fetch that has not yet fired is cancelled; a new one
// fires after the debounce window of quiescence.
func (c *Controller) SetInputAmount(amount string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.InputAmount = amount
	c.clearQuoteLocked()
	c.scheduleQuoteLocked()
}

// clearQuoteLocked invalidates the active quote and any in-flight
// request's effect on displayed state. Callers hold c.mu.
func (c *Controller) clearQuoteLocked() {
	c.quoteGen++
	if c.quoteTimer != nil {
		c.quoteTimer.Stop()
		c.quoteTimer = nil
	}
	c.state.Quote = nil
	c.state.OutputAmount = ""
	c.state.Err = nil
	if c.state.Phase == PhaseQuoting || c.state.Phase == PhaseQuoteReady {
		c.state.Phase = PhaseIdle
		c.state.Message = ""
	}
}

// scheduleQuoteLocked arms the debounce timer when there is an amount
// to quote. Callers hold c.mu.
func (c *Controller) scheduleQuoteLocked() {
	if c.state.InputAmount == "" {
		return
	}
	gen := c.quoteGen
	c.state.Phase = PhaseQuoting
	c.state.Message = "Fetching quote..."
	c.quoteTimer = time.AfterFunc(c.Debounce, func() {
		c.fetchQuote(gen)
	})
}

// fetchQuote runs after the debounce window. The generation token makes
// quote application last-response-wins: if the user typed again while
// this request was in flight, the response is discarded.
func (c *Controller) fetchQuote(gen uint64) {
	c.mu.Lock()
	if gen != c.quoteGen {
		c.mu.Unlock()
		return
	}
	input := c.state.InputToken
	output := c.state.OutputToken
	amount := c.state.InputAmount
	slippage := c.state.SlippageBps
	c.mu.Unlock()

	raw, err := ToSmallestUnit(amount, input.Decimals)
	if err != nil {
		c.applyQuote(gen, nil, "", err)
		return
	}

	quote, err := c.quotes.GetQuote(context.Background(), input.Mint, output.Mint, raw, slippage)
	if err != nil {
		c.applyQuote(gen, nil, "", err)
		return
	}

	outRaw, err := quote.OutAmountRaw()
	if err != nil {
		c.applyQuote(gen, nil, "", err)
		return
	}
	c.applyQuote(gen, quote, FromSmallestUnit(outRaw, output.Decimals), nil)
}

func (c *Controller) applyQuote(gen uint64, quote *types.Quote, outputAmount string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.quoteGen {
		// A newer request superseded this one; its state stands.
		c.log.Debug().Uint64("gen", gen).Msg("discarding stale quote response")
		return
	}
	if err != nil {
		c.state.Quote = nil
		c.state.OutputAmount = ""
		c.state.Err = err
		c.state.Phase = PhaseIdle
		if errors.Is(err, types.ErrInvalidAmount) {
			c.state.Message = "Enter a valid amount"
		} else {
			c.state.Message = "Failed to fetch quote. Please try again."
		}
		return
	}
	c.state.Quote = quote
	c.state.OutputAmount = outputAmount
	c.state.Err = nil
	c.state.Phase = PhaseQuoteReady
	c.state.Message = ""
}

// Submit runs the swap attempt for the active quote: build, sign,
// broadcast, then confirmation polling. It blocks until a terminal
// phase. Token or amount mutation after submission does not affect the
// in-flight attempt; a Dismiss stops state updates without aborting
// the attempt's network calls.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.state.Phase != PhaseQuoteReady || c.state.Quote == nil {
		c.state.Phase = PhaseFailed
		c.state.Err = types.ErrPreconditionFailed
		c.state.Message = "Please connect your wallet and get a quote first"
		c.mu.Unlock()
		return
	}
	quote := c.state.Quote
	c.attemptGen++
	attempt := c.attemptGen
	c.state.Phase = PhaseSubmitting
	c.state.Message = "Processing your swap..."
	c.state.Signature = ""
	c.state.Err = nil
	c.mu.Unlock()

	sig, err := c.executor.Execute(ctx, quote)
	if err != nil {
		c.failAttempt(attempt, err)
		return
	}

	c.updateAttempt(attempt, func(s *State) {
		s.Signature = sig.String()
		s.Phase = PhaseAwaitingConfirmation
		s.Message = "Transaction sent. Confirming swap..."
	})

	outcome := c.poller.Await(ctx, sig)
	if outcome == OutcomeFailed {
		c.failAttempt(attempt, types.ErrOnChainFailure)
		return
	}

	c.updateAttempt(attempt, func(s *State) {
		s.Phase = PhaseSucceeded
		s.Message = "Swap completed successfully!"
	})
	c.scheduleBalanceRefresh()
}

// failAttempt moves the attempt to Failed with a message matching the
// error taxonomy.
func (c *Controller) failAttempt(attempt uint64, err error) {
	c.log.Warn().Err(err).Msg("swap attempt failed")
	msg := "Swap failed: " + err.Error()
	switch {
	case errors.Is(err, types.ErrUserRejected):
		msg = "Transaction was cancelled by user"
	case errors.Is(err, types.ErrOnChainFailure):
		msg = "Transaction failed on blockchain."
	case errors.Is(err, types.ErrPreconditionFailed):
		msg = "Please connect your wallet and get a quote first"
	}
	c.updateAttempt(attempt, func(s *State) {
		s.Phase = PhaseFailed
		s.Err = err
		s.Message = msg
	})
}

// updateAttempt applies fn only while the attempt is still current; a
// dismissed attempt no longer updates UI state.
func (c *Controller) updateAttempt(attempt uint64, fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if attempt != c.attemptGen {
		return
	}
	fn(&c.state)
}

// scheduleBalanceRefresh arms exactly one delayed refresh so RPC state
// can catch up after a confirmed swap.
func (c *Controller) scheduleBalanceRefresh() {
	if c.balances == nil {
		return
	}
	time.AfterFunc(c.RefreshDelay, func() {
		c.balances.Refresh(context.Background())
	})
}

// Dismiss resets a terminal attempt back to Idle and clears the form.
// Only explicit dismissal leaves Succeeded or Failed.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attemptGen++
	c.quoteGen++
	if c.quoteTimer != nil {
		c.quoteTimer.Stop()
		c.quoteTimer = nil
	}
	input, output, slippage := c.state.InputToken, c.state.OutputToken, c.state.SlippageBps
	c.state = State{
		Phase:       PhaseIdle,
		InputToken:  input,
		OutputToken: output,
		SlippageBps: slippage,
	}
}
