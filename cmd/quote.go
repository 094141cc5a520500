package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"solswap/pkg/parser"
	"solswap/pkg/swap"
)

var quoteSlippageBps int

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <input-token> to <output-token>",
	Short: "Fetch a price quote without swapping",
	Long: `Fetch a route and price quote from the Jupiter aggregator without
building or submitting a transaction. No wallet is required.

Examples:
  solswap quote 10 USDC to USDUC
  solswap quote 0.5 SOL to USDC --slippage-bps 100`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().IntVar(&quoteSlippageBps, "slippage-bps", 0, "Slippage tolerance in basis points (default from config)")
}

func runQuote(cmd *cobra.Command, args []string) {
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if swapReq.Amount == "max" {
		printError(fmt.Errorf("'max' requires a wallet; use the swap command"))
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(false, nil, verbose)
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

	bps := a.cfg.SlippageBps
	if quoteSlippageBps > 0 {
		bps = quoteSlippageBps
	}

	raw, err := swap.ToSmallestUnit(swapReq.Amount, inputToken.Decimals)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	quote, err := a.jupiter.GetQuote(context.Background(), inputToken.Mint, outputToken.Mint, raw, bps)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	outRaw, err := quote.OutAmountRaw()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	state := swap.State{
		InputAmount:  swapReq.Amount,
		OutputAmount: swap.FromSmallestUnit(outRaw, outputToken.Decimals),
		SlippageBps:  bps,
		Quote:        quote,
	}
	displayQuote(state, inputToken, outputToken)
}
