package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultReferralAccount receives the aggregator referral fee when no
// override is configured.
const DefaultReferralAccount = "D6E4sDrWHCAmKGkt1r39ZkNqk8BQuA91bMrZvaKkDpC"

// PublicRPCURL is the fallback endpoint when no provider API key is set.
const PublicRPCURL = "https://api.mainnet-beta.solana.com"

// Config holds the application configuration
type Config struct {
	HeliusAPIKey        string
	RPCOverride         string
	JupiterBaseURL      string
	ReferralAccount     string
	PrivateKey          string
	Commitment          string
	SlippageBps         int
	PriorityFeeLamports uint64
	LogLevel            string
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".solswap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("jupiter_base_url", "https://quote-api.jup.ag")
	viper.SetDefault("referral_account", DefaultReferralAccount)
	viper.SetDefault("commitment", "confirmed")
	viper.SetDefault("slippage_bps", 50)
	viper.SetDefault("priority_fee_lamports", 1000)
	viper.SetDefault("log_level", "info")

	// Read from environment variables
	viper.SetEnvPrefix("SOLSWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		HeliusAPIKey:        viper.GetString("helius_api_key"),
		RPCOverride:         viper.GetString("rpc_url"),
		JupiterBaseURL:      viper.GetString("jupiter_base_url"),
		ReferralAccount:     viper.GetString("referral_account"),
		PrivateKey:          viper.GetString("private_key"),
		Commitment:          viper.GetString("commitment"),
		SlippageBps:         viper.GetInt("slippage_bps"),
		PriorityFeeLamports: viper.GetUint64("priority_fee_lamports"),
		LogLevel:            viper.GetString("log_level"),
	}

	globalConfig = cfg
	return cfg, nil
}

// RPCURL resolves the RPC endpoint: an explicit override wins, then the
// Helius endpoint when an API key is present, then the public endpoint.
func (c *Config) RPCURL() string {
	if c.RPCOverride != "" {
		return c.RPCOverride
	}
	if c.HeliusAPIKey != "" {
		return fmt.Sprintf("https://mainnet.helius-rpc.com/?api-key=%s", c.HeliusAPIKey)
	}
	return PublicRPCURL
}

// RequireWallet validates that a signing key is configured.
func (c *Config) RequireWallet() error {
	if c.PrivateKey == "" {
		return fmt.Errorf("wallet key not found. Please set SOLSWAP_PRIVATE_KEY or add private_key to a .solswap.yaml config file")
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
