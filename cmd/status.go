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
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"solswap/pkg/swap"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <signature>",
	Short: "Check the status of a swap transaction",
	Long: `Check the confirmation status of a broadcast transaction by its
signature. Without --watch the command polls until the transaction
reaches a terminal state or the attempt budget runs out.

Examples:
  solswap status 5UfDu...
  solswap status 5UfDu... --watch
  solswap status 5UfDu... --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	sig, err := solana.SignatureFromBase58(args[0])
	if err != nil {
		printError(fmt.Errorf("invalid transaction signature: %w", err))
		os.Exit(1)
	}

	a, err := newApp(false, nil, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if watchStatus {
		watchSignature(a, sig, jsonOutput)
	} else {
		awaitSignature(a, sig, jsonOutput)
	}
}

func awaitSignature(a *app, sig solana.Signature, jsonOutput bool) {
	poller := swap.NewPoller(a.rpc, a.log)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Waiting for confirmation..."
		s.Start()
	}

	outcome := poller.Await(context.Background(), sig)
	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		status := "confirmed"
		if outcome == swap.OutcomeFailed {
			status = "failed"
		}
		output := map[string]any{
			"signature": sig.String(),
			"status":    status,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		if outcome == swap.OutcomeFailed {
			os.Exit(1)
		}
		return
	}

	fmt.Println()
	if outcome == swap.OutcomeFailed {
		color.Red("✗ Transaction failed on blockchain.")
		fmt.Printf("  Explorer: %s\n\n", explorerURL(sig.String()))
		os.Exit(1)
	}
	color.Green("✓ Transaction confirmed.")
	fmt.Printf("  Explorer: %s\n\n", explorerURL(sig.String()))
}

func watchSignature(a *app, sig solana.Signature, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(sig.String()))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	checkAndDisplayStatus(a, sig)

	// Then check periodically
	for range ticker.C {
		if checkAndDisplayStatus(a, sig) {
			return
		}
	}
}

// checkAndDisplayStatus prints the current confirmation status and
// reports whether it is terminal.
func checkAndDisplayStatus(a *app, sig solana.Signature) bool {
	res, err := a.rpc.GetSignatureStatuses(context.Background(), true, sig)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	ts := time.Now().Format("15:04:05")
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		fmt.Printf("  [%s] %s\n", ts, color.HiBlackString("not yet observed"))
		return false
	}

	st := res.Value[0]
	if st.Err != nil {
		fmt.Printf("  [%s] %s\n", ts, color.RedString("FAILED"))
		return true
	}

	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		fmt.Printf("  [%s] %s\n", ts, color.GreenString("FINALIZED"))
		return true
	case rpc.ConfirmationStatusConfirmed:
		fmt.Printf("  [%s] %s\n", ts, color.GreenString("CONFIRMED"))
		return false
	default:
		fmt.Printf("  [%s] %s\n", ts, color.YellowString(strings.ToUpper(string(st.ConfirmationStatus))))
		return false
	}
}
