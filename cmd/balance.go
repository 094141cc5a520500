package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:     "balance",
	Aliases: []string{"balances"},
	Short:   "Show balances for the configured wallet",
	Long: `Query the RPC endpoint for the native balance and every registry
token's balance. Tokens whose balance could not be read show "...".

Examples:
  solswap balance
  solswap balance --json`,
	Run: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(true, nil, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := a.wallet.Connect(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching balances..."
		s.Start()
	}

	a.tracker.Refresh(ctx)
	snap := a.tracker.Snapshot()

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]any{
			"account":  a.wallet.PublicKey().String(),
			"balances": snap,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                       BALANCES")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Account: %s\n\n", color.CyanString(a.wallet.PublicKey().String()))

	for _, token := range a.registry.Tokens() {
		var v *float64
		if bal, ok := snap.Lookup(token.Mint); ok {
			v = &bal
		}
		fmt.Printf("  %-7s %s\n", color.YellowString(token.Symbol), formatBalance(v))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
