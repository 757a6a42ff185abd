package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/brojonat/solsend/service/solana"
)

func keypairCommands() *cli.Command {
	return &cli.Command{
		Name:  "keypair",
		Usage: "Keypair inspection commands",
		Subcommands: []*cli.Command{
			keypairPubkeyCommand(),
		},
	}
}

func keypairPubkeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "pubkey",
		Usage: "Derive and print the public address of the configured sender key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "from-key",
				Usage:   "Base58-encoded sender secret key (prefer the env var over the flag)",
				EnvVars: []string{"SENDER_PRIVATE_KEY"},
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
			encoded := c.String("from-key")
			if encoded == "" {
				return cli.Exit("SENDER_PRIVATE_KEY is required", 1)
			}

			key, err := solana.LoadKeypair(encoded)
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load keypair: %v", err), 1)
			}

			if c.Bool("json") || c.String("jq") != "" {
				out := map[string]any{"address": key.PublicKey().String()}
				if err := printJSON(out, c.String("jq")); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return nil
			}

			fmt.Println(key.PublicKey().String())
			return nil
		},
	}
}
