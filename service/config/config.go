package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated before use to ensure fail-fast behavior.
// Amounts are in lamports, the smallest indivisible unit; human-readable SOL
// values are a display concern and never appear here.
type Config struct {
	// Network configuration
	SolanaRPCURL string

	// Key configuration. SenderPrivateKey is a base58-encoded 64-byte
	// ed25519 keypair; it is held only for the duration of one run and
	// must never be logged.
	SenderPrivateKey  string
	ReceiverPublicKey string

	// Transaction configuration
	Amount              uint64
	MinBalance          uint64
	ConfirmationTimeout time.Duration
	CommitmentLevel     string
	SkipPreflight       bool

	// Logging
	LogLevel string

	// NATS configuration (optional; receipts are published when set)
	NATSURL string
}

// validCommitments are the confirmation depths the Solana RPC accepts.
var validCommitments = map[string]struct{}{
	"processed": {},
	"confirmed": {},
	"finalized": {},
}

// FromEnv reads configuration from environment variables without checking
// required fields, so callers can layer overrides (e.g., CLI flags) on top
// before calling Validate. It fails only on values that do not parse.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Network configuration
	cfg.SolanaRPCURL = os.Getenv("SOLANA_RPC_URL")

	// Key configuration
	cfg.SenderPrivateKey = os.Getenv("SENDER_PRIVATE_KEY")
	cfg.ReceiverPublicKey = os.Getenv("RECEIVER_PUBLIC_KEY")

	// Transaction configuration
	amount, err := parseUint("TRANSFER_AMOUNT", 0)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.Amount = amount
	}

	minBalance, err := parseUint("MIN_BALANCE", 0)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MinBalance = minBalance
	}

	timeout, err := parseDuration("CONFIRMATION_TIMEOUT", "30s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ConfirmationTimeout = timeout
	}

	cfg.CommitmentLevel = getEnvOrDefault("COMMITMENT_LEVEL", "confirmed")

	skipPreflight, err := parseBool("SKIP_PREFLIGHT", true)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.SkipPreflight = skipPreflight
	}

	// Logging
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// NATS configuration (optional)
	cfg.NATSURL = os.Getenv("NATS_URL")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parsing failed: %v", errs)
	}

	return cfg, nil
}

// Load reads configuration from environment variables and validates all
// required fields. Returns an error if any required configuration is missing
// or invalid.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	}

	if c.SenderPrivateKey == "" {
		errs = append(errs, fmt.Errorf("SenderPrivateKey is required"))
	}

	if c.ReceiverPublicKey == "" {
		errs = append(errs, fmt.Errorf("ReceiverPublicKey is required"))
	}

	if c.Amount == 0 {
		errs = append(errs, fmt.Errorf("Amount must be greater than zero"))
	}

	if c.ConfirmationTimeout < time.Second {
		errs = append(errs, fmt.Errorf("ConfirmationTimeout must be at least 1 second"))
	}

	if _, ok := validCommitments[c.CommitmentLevel]; !ok {
		errs = append(errs, fmt.Errorf("CommitmentLevel must be one of processed, confirmed, finalized (got %q)", c.CommitmentLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// ParseTimeout parses a confirmation timeout that is either a duration
// string ("30s", "1m") or a bare unsigned integer number of seconds ("30").
// Both forms appear in deployed configurations.
func ParseTimeout(value string) (time.Duration, error) {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}
	if secs, err := strconv.ParseUint(value, 10, 32); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q (use a duration like \"30s\" or bare seconds)", value)
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := ParseTimeout(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return duration, nil
}

// parseUint parses an unsigned integer from an environment variable or uses a default.
func parseUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid unsigned integer %q: %w", key, value, err)
	}
	return result, nil
}

// parseBool parses a boolean from an environment variable or uses a default.
func parseBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return result, nil
}
