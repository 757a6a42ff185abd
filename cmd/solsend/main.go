package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "solsend",
		Usage: "Single-shot Solana native transfer CLI",
		Description: `Transfers a fixed amount of SOL from one account to another via a
remote RPC endpoint. The sender balance is verified before anything is
submitted, the transaction is signed against a fresh blockhash, and the run
waits for the requested commitment level before reporting the signature.

One transfer per invocation; there are no automatic retries.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			transferCommand(),
			balanceCommand(),
			keypairCommands(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
