package parser

import (
	"fmt"
	"regexp"
	"strings"

	"solswap/pkg/types"
)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 10 USDC to USDUC"
//   - "0.5 SOL to USDC"
//   - "max USDC to SOL"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	// Pattern: <amount> <input_token> TO <output_token>
	// Matches: "10 USDC TO USDUC", "0.5 SOL TO USDC", "MAX USDC TO SOL"
	pattern := regexp.MustCompile(`^(\d+\.?\d*|MAX)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

	matches := pattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 10 USDC to USDUC')")
	}

	return &types.SwapRequest{
		Amount:       strings.ToLower(matches[1]),
		InputSymbol:  matches[2],
		OutputSymbol: matches[3],
	}, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.InputSymbol == "" {
		return fmt.Errorf("input token is required")
	}
	if req.OutputSymbol == "" {
		return fmt.Errorf("output token is required")
	}
	if strings.EqualFold(req.InputSymbol, req.OutputSymbol) {
		return fmt.Errorf("input and output tokens must differ")
	}
	return nil
}
