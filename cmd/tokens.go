package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"solswap/pkg/tokens"
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the tokens available for swapping",
	Long: `List the tokens in the static registry, with mint addresses and
decimal precision.

Examples:
  solswap list-tokens
  solswap tokens --json`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	registry := tokens.Default()

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(registry.Tokens(), "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      AVAILABLE TOKENS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	for _, token := range registry.Tokens() {
		fmt.Printf("  %-7s %s\n", color.YellowString(token.Symbol), token.Name)
		fmt.Printf("          Mint:     %s\n", color.CyanString(token.Mint))
		fmt.Printf("          Decimals: %d\n\n", token.Decimals)
	}

	fmt.Println(strings.Repeat("=", 70) + "\n")
}
