package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/solsend/service/config"
	"github.com/brojonat/solsend/service/metrics"
	snats "github.com/brojonat/solsend/service/nats"
	"github.com/brojonat/solsend/service/solana"
)

func transferCommand() *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Send SOL to a recipient after verifying balance sufficiency",
		Description: "Configuration is read from the environment (SOLANA_RPC_URL, " +
			"SENDER_PRIVATE_KEY, RECEIVER_PUBLIC_KEY, TRANSFER_AMOUNT, MIN_BALANCE, " +
			"CONFIRMATION_TIMEOUT, COMMITMENT_LEVEL, SKIP_PREFLIGHT, NATS_URL, " +
			"LOG_LEVEL); flags override the corresponding environment variables.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rpc-url",
				Usage: "Solana RPC endpoint URL (overrides SOLANA_RPC_URL)",
			},
			&cli.StringFlag{
				Name:  "from-key",
				Usage: "Base58-encoded sender secret key (prefer SENDER_PRIVATE_KEY over the flag)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Base58-encoded recipient address (overrides RECEIVER_PUBLIC_KEY)",
			},
			&cli.Uint64Flag{
				Name:  "amount",
				Usage: "Transfer amount in lamports (overrides TRANSFER_AMOUNT)",
			},
			&cli.Uint64Flag{
				Name:  "min-balance",
				Usage: "Lamports that must remain in the sender account after the transfer (overrides MIN_BALANCE)",
			},
			&cli.StringFlag{
				Name:  "timeout",
				Usage: "How long to wait for confirmation, as a duration or bare seconds (e.g., 30s, 1m, 30; overrides CONFIRMATION_TIMEOUT)",
			},
			&cli.StringFlag{
				Name:  "commitment",
				Usage: "Commitment level to wait for: processed, confirmed, finalized (overrides COMMITMENT_LEVEL)",
			},
			&cli.BoolFlag{
				Name:  "skip-preflight",
				Usage: "Skip the RPC node's preflight simulation before submission (overrides SKIP_PREFLIGHT)",
			},
			&cli.StringFlag{
				Name:  "nats-url",
				Usage: "NATS server URL; when set, the confirmed receipt is published to JetStream (overrides NATS_URL)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (overrides LOG_LEVEL)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the receipt as JSON",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON receipt (implies --json)",
			},
		},
		Action: runTransfer,
	}
}

// transferConfig loads configuration from the environment and applies any
// explicitly set flags on top, then validates the result. Flags always win
// over environment variables.
func transferConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if c.IsSet("rpc-url") {
		cfg.SolanaRPCURL = c.String("rpc-url")
	}
	if c.IsSet("from-key") {
		cfg.SenderPrivateKey = c.String("from-key")
	}
	if c.IsSet("to") {
		cfg.ReceiverPublicKey = c.String("to")
	}
	if c.IsSet("amount") {
		cfg.Amount = c.Uint64("amount")
	}
	if c.IsSet("min-balance") {
		cfg.MinBalance = c.Uint64("min-balance")
	}
	if c.IsSet("timeout") {
		timeout, err := config.ParseTimeout(c.String("timeout"))
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.ConfirmationTimeout = timeout
	}
	if c.IsSet("commitment") {
		cfg.CommitmentLevel = c.String("commitment")
	}
	if c.IsSet("skip-preflight") {
		cfg.SkipPreflight = c.Bool("skip-preflight")
	}
	if c.IsSet("nats-url") {
		cfg.NATSURL = c.String("nats-url")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTransfer(c *cli.Context) error {
	cfg, err := transferConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := newLogger(cfg.LogLevel)

	key, err := solana.LoadKeypair(cfg.SenderPrivateKey)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load sender keypair: %v", err), 1)
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())
	client := solana.NewClient(
		solana.NewRPCClient(cfg.SolanaRPCURL),
		solana.ClientConfig{
			Endpoint:            cfg.SolanaRPCURL,
			Commitment:          rpc.CommitmentType(cfg.CommitmentLevel),
			SkipPreflight:       cfg.SkipPreflight,
			ConfirmationTimeout: cfg.ConfirmationTimeout,
		},
		m,
		logger,
	)

	req := solana.TransferRequest{
		Destination: cfg.ReceiverPublicKey,
		Amount:      cfg.Amount,
		MinBalance:  cfg.MinBalance,
	}

	logger.Info("starting transfer",
		"sender", key.PublicKey().String(),
		"recipient", cfg.ReceiverPublicKey,
		"lamports", cfg.Amount,
		"amount", solana.FormatSOL(cfg.Amount),
	)

	// The confirmation timeout is scoped to the post-submission wait inside
	// the client, so the run itself is bounded only by caller cancellation.
	receipt, err := client.ExecuteTransfer(c.Context, req, key)
	if err != nil {
		logger.Error("transfer failed",
			"kind", string(solana.KindOf(err)),
			"error", err,
		)
		if solana.Indeterminate(err) {
			// The transaction was submitted; it may still land. Exit code 2
			// distinguishes this from a definite failure so operators know to
			// check the signature status before retrying.
			return cli.Exit(fmt.Sprintf(
				"transfer outcome indeterminate: %v\ncheck the transaction status and sender balance before retrying", err), 2)
		}
		return cli.Exit(fmt.Sprintf("transfer failed: %v", err), 1)
	}

	if cfg.NATSURL != "" {
		publishReceipt(c.Context, cfg.NATSURL, receipt, m, logger)
	}

	if c.Bool("json") || c.String("jq") != "" {
		if err := printJSON(receipt, c.String("jq")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return nil
	}

	fmt.Printf("✓ Transfer confirmed\n")
	fmt.Printf("  Signature: %s\n", receipt.Signature)
	fmt.Printf("  From: %s\n", receipt.Source)
	fmt.Printf("  To: %s\n", receipt.Destination)
	fmt.Printf("  Amount: %s (%d lamports)\n", solana.FormatSOL(receipt.Lamports), receipt.Lamports)
	fmt.Printf("  Commitment: %s (slot %d)\n", receipt.Commitment, receipt.Slot)
	fmt.Printf("  Sender balance: %s -> %s\n",
		solana.FormatSOL(receipt.BalanceBefore), solana.FormatSOL(receipt.BalanceAfter))

	return nil
}

// publishReceipt publishes the confirmed receipt to NATS. Publishing is
// best-effort: the transfer already settled on-chain, so a publish failure is
// logged but never fails the run.
func publishReceipt(ctx context.Context, natsURL string, receipt *solana.Receipt, m *metrics.Metrics, logger *slog.Logger) {
	publisher, err := snats.NewPublisher(natsURL, logger)
	if err != nil {
		logger.Error("failed to connect NATS publisher", "error", err)
		m.RecordNATSPublish("error")
		return
	}
	defer publisher.Close()

	if err := publisher.PublishTransfer(ctx, snats.FromReceipt(receipt)); err != nil {
		logger.Error("failed to publish transfer receipt", "error", err)
		m.RecordNATSPublish("error")
		return
	}
	m.RecordNATSPublish("success")
}

// newLogger builds the CLI's JSON logger on stderr so stdout stays clean for
// command output.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
