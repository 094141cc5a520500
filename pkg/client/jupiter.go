// Package client wraps the Jupiter v6 aggregator HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"solswap/pkg/types"
)

// DefaultBaseURL is the public Jupiter v6 endpoint.
const DefaultBaseURL = "https://quote-api.jup.ag"

// JupiterClient talks to the aggregator's quote and swap-build
// endpoints. Route finding and transaction construction stay on the
// aggregator side; this client only moves JSON.
type JupiterClient struct {
	base     string
	referral string
	// prioritization fee attached to every built swap, in lamports.
	priorityFeeLamports uint64

	httpClient *http.Client
	log        zerolog.Logger
}

// NewJupiterClient creates a Jupiter API client. referral is the fee
// account included in swap builds; pass the configured default when no
// override is set.
func NewJupiterClient(base, referral string, priorityFeeLamports uint64, log zerolog.Logger) *JupiterClient {
	if base == "" {
		base = DefaultBaseURL
	}
	return &JupiterClient{
		base:                base,
		referral:            referral,
		priorityFeeLamports: priorityFeeLamports,
		httpClient:          &http.Client{Timeout: 15 * time.Second},
		log:                 log,
	}
}

// SetHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *JupiterClient) SetHTTPClient(h *http.Client) { c.httpClient = h }

// GetQuote fetches a route/price quote. amount is an integer in the
// input token's smallest unit.
func (c *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*types.Quote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))
	u := c.base + "/v6/quote?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp, types.ErrNetwork, "quote")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read quote response: %v", types.ErrNetwork, err)
	}

	var quote types.Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("%w: decode quote response: %v", types.ErrNetwork, err)
	}
	// Keep the exact body so the swap build echoes what the aggregator
	// sent, route plan included.
	quote.Raw = json.RawMessage(body)

	c.log.Debug().
		Str("inputMint", inputMint).
		Str("outputMint", outputMint).
		Uint64("amount", amount).
		Str("outAmount", quote.OutAmount).
		Msg("quote received")

	return &quote, nil
}

// BuildSwapTransaction asks the aggregator for a serialized,
// ready-to-sign transaction for the given quote and account, and
// returns it decoded.
func (c *JupiterClient) BuildSwapTransaction(ctx context.Context, quote *types.Quote, user solana.PublicKey) (*solana.Transaction, error) {
	quoteResponse := quote.Raw
	if quoteResponse == nil {
		marshaled, err := json.Marshal(quote)
		if err != nil {
			return nil, fmt.Errorf("marshal quote: %w", err)
		}
		quoteResponse = marshaled
	}

	payload := map[string]any{
		"quoteResponse":             json.RawMessage(quoteResponse),
		"userPublicKey":             user.String(),
		"wrapAndUnwrapSol":          true,
		"dynamicComputeUnitLimit":   true,
		"prioritizationFeeLamports": c.priorityFeeLamports,
		"feeAccount":                c.referral,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v6/swap", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp, types.ErrNetwork, "swap build")
	}

	var sr struct {
		SwapTransaction string `json:"swapTransaction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode swap response: %v", types.ErrNetwork, err)
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode swap transaction: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal swap transaction: %w", err)
	}
	return tx, nil
}

// apiError extracts the aggregator's error message from a non-success
// response body when one is present.
func apiError(resp *http.Response, sentinel error, op string) error {
	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr == nil && len(bodyBytes) > 0 {
		var errorResp map[string]any
		if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
			if message, ok := errorResp["error"].(string); ok {
				return fmt.Errorf("%w: %s status %d: %s", sentinel, op, resp.StatusCode, message)
			}
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("%w: %s status %d: %s", sentinel, op, resp.StatusCode, message)
			}
		}
	}
	return fmt.Errorf("%w: %s returned status %d", sentinel, op, resp.StatusCode)
}
