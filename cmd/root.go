package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solswap",
	Short: "A CLI for swapping SPL tokens through the Jupiter aggregator",
	Long: `solswap swaps tokens on Solana using the Jupiter v6 aggregator.
Route finding and transaction construction stay with the aggregator;
solswap fetches quotes, signs with your configured wallet, broadcasts,
and polls the RPC endpoint until the swap confirms.

Examples:
  solswap swap 10 USDC to USDUC
  solswap quote 0.5 SOL to USDC
  solswap balance
  solswap tokens
  solswap status <signature>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
