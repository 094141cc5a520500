package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"solswap/pkg/parser"
	"solswap/pkg/swap"
	"solswap/pkg/types"
)

var (
	slippageBps int
	noConfirm   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <input-token> to <output-token>",
	Short: "Swap tokens through the Jupiter aggregator",
	Long: `Swap tokens on Solana using the Jupiter v6 aggregator.

The amount is entered in human decimal form and converted to the input
token's smallest unit. Use "max" to swap your full balance.

Examples:
  solswap swap 10 USDC to USDUC
  solswap swap 0.5 SOL to USDC --slippage-bps 100
  solswap swap max USDC to SOL --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().IntVar(&slippageBps, "slippage-bps", 0, "Slippage tolerance in basis points (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	// Parse the command
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(true, nil, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	inputToken, err := a.registry.BySymbol(swapReq.InputSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	outputToken, err := a.registry.BySymbol(swapReq.OutputSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := a.wallet.Connect(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}

	// Load balances up front: they back the max helper and the
	// post-swap comparison.
	a.tracker.Refresh(ctx)

	amount := swapReq.Amount
	if amount == "max" {
		snap := a.tracker.Snapshot()
		bal, known := snap.Lookup(inputToken.Mint)
		if !known || bal <= 0 {
			printError(fmt.Errorf("no %s balance available to swap", inputToken.Symbol))
			os.Exit(1)
		}
		amount = fmt.Sprintf("%f", bal)
	}

	if swapReq.SlippageBps == 0 {
		swapReq.SlippageBps = a.cfg.SlippageBps
	}
	if slippageBps > 0 {
		swapReq.SlippageBps = slippageBps
	}

	ctrl := a.newController()
	ctrl.SetTokens(inputToken, outputToken)
	ctrl.SetSlippageBps(swapReq.SlippageBps)

	// Get quote with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	ctrl.SetInputAmount(amount)
	state, err := waitForQuote(ctrl, 30*time.Second)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if verbose {
		quoteJSON, _ := json.MarshalIndent(state.Quote, "", "  ")
		fmt.Println(string(quoteJSON))
	}

	if !jsonOutput {
		displayQuote(state, inputToken, outputToken)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	// Run the attempt: build, sign, broadcast, confirm.
	if !jsonOutput {
		s.Suffix = " Processing your swap..."
		s.Start()
		go trackStatus(ctrl, s)
	}

	ctrl.Submit(ctx)
	final := ctrl.Snapshot()
	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]any{
			"phase":         string(final.Phase),
			"signature":     final.Signature,
			"input_amount":  amount,
			"input_token":   inputToken.Symbol,
			"output_amount": state.OutputAmount,
			"output_token":  outputToken.Symbol,
			"message":       final.Message,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		if final.Phase != swap.PhaseSucceeded {
			os.Exit(1)
		}
		return
	}

	displayResult(final)

	if final.Phase == swap.PhaseSucceeded {
		// The controller schedules a balance refresh shortly after
		// confirmation; wait it out so the summary shows fresh numbers.
		time.Sleep(ctrl.RefreshDelay + 500*time.Millisecond)
		displayBalances(a)
	}

	ctrl.Dismiss()
	if final.Phase != swap.PhaseSucceeded {
		os.Exit(1)
	}
}

// waitForQuote polls the controller until the quote settles one way or
// the other.
func waitForQuote(ctrl *swap.Controller, timeout time.Duration) (swap.State, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		state := ctrl.Snapshot()
		if state.Phase == swap.PhaseQuoteReady {
			return state, nil
		}
		if state.Err != nil {
			return state, state.Err
		}
		time.Sleep(50 * time.Millisecond)
	}
	return swap.State{}, fmt.Errorf("timed out waiting for quote")
}

// trackStatus mirrors the controller's status message into the spinner.
func trackStatus(ctrl *swap.Controller, s *spinner.Spinner) {
	for {
		state := ctrl.Snapshot()
		if state.Phase == swap.PhaseSucceeded || state.Phase == swap.PhaseFailed {
			return
		}
		if state.Message != "" {
			s.Suffix = " " + state.Message
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func displayQuote(state swap.State, input, output types.Token) {
	quote := state.Quote

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:            %s %s\n", state.InputAmount, color.YellowString(input.Symbol))
	fmt.Printf("  To:              ~%s %s\n", state.OutputAmount, color.YellowString(output.Symbol))

	if minRaw, err := quote.MinReceivedRaw(); err == nil {
		fmt.Printf("  Min Received:    %s %s\n", swap.FromSmallestUnit(minRaw, output.Decimals), output.Symbol)
	}
	fmt.Printf("  Slippage:        %d bps\n", state.SlippageBps)

	impact := quote.PriceImpact()
	impactStr := fmt.Sprintf("%.3f%%", impact)
	if impact > 1 {
		impactStr = color.RedString(impactStr + "  (high)")
	}
	fmt.Printf("  Price Impact:    %s\n", impactStr)

	hops := len(quote.RoutePlan)
	plural := ""
	if hops != 1 {
		plural = "s"
	}
	fmt.Printf("  Route:           %d hop%s\n", hops, plural)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")

	if impact > 1 {
		color.Red("High price impact detected. Consider reducing your trade size.\n")
	}
}

func displayResult(final swap.State) {
	fmt.Println()
	switch final.Phase {
	case swap.PhaseSucceeded:
		color.Green("✓ %s", final.Message)
		if final.Signature != "" {
			fmt.Printf("  Transaction: %s\n", color.CyanString(final.Signature))
			fmt.Printf("  Explorer:    %s\n", explorerURL(final.Signature))
		}
	default:
		color.Red("✗ %s", final.Message)
		if final.Signature != "" {
			fmt.Printf("  Transaction: %s\n", color.CyanString(final.Signature))
			fmt.Printf("  Explorer:    %s\n", explorerURL(final.Signature))
		}
	}
	fmt.Println()
}

func displayBalances(a *app) {
	snap := a.tracker.Snapshot()

	fmt.Println("Balances:")
	for _, token := range a.registry.Tokens() {
		var v *float64
		if bal, ok := snap.Lookup(token.Mint); ok {
			v = &bal
		}
		fmt.Printf("  %-6s %s\n", token.Symbol, formatBalance(v))
	}
	fmt.Println()
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
