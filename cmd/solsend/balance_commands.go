package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/solsend/service/metrics"
	"github.com/brojonat/solsend/service/solana"
)

func balanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Look up the live balance of an account",
		ArgsUsage: "ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "Solana RPC endpoint URL",
				EnvVars: []string{"SOLANA_RPC_URL"},
			},
			&cli.StringFlag{
				Name:    "commitment",
				Usage:   "Commitment level for the read: processed, confirmed, finalized",
				Value:   "confirmed",
				EnvVars: []string{"COMMITMENT_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON output (implies --json)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("account address is required")
			}
			rpcURL := c.String("rpc-url")
			if rpcURL == "" {
				return cli.Exit("SOLANA_RPC_URL is required", 1)
			}

			account, err := solana.ParseAddress(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger := newLogger(c.String("log-level"))
			client := solana.NewClient(
				solana.NewRPCClient(rpcURL),
				solana.ClientConfig{
					Endpoint:   rpcURL,
					Commitment: rpc.CommitmentType(c.String("commitment")),
				},
				metrics.NewMetrics(prometheus.NewRegistry()),
				logger,
			)

			lamports, err := client.Balance(c.Context, account)
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to get balance: %v", err), 1)
			}

			if c.Bool("json") || c.String("jq") != "" {
				out := map[string]any{
					"address":  account.String(),
					"lamports": lamports,
					"sol":      solana.FormatSOL(lamports),
				}
				if err := printJSON(out, c.String("jq")); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return nil
			}

			fmt.Printf("%s: %s (%d lamports)\n", account, solana.FormatSOL(lamports), lamports)
			return nil
		},
	}
}
