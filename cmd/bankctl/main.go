// Command bankctl drives the banking API from the terminal: it logs in, shows
// accounts and activity, and runs deposits and transfers through the same
// orchestration the app uses.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/congo-pay/homebank/internal/config"
	"github.com/congo-pay/homebank/internal/logging"
)

const usage = `usage: bankctl <command> [flags]

commands:
  login         exchange email and password for a token
  account       show an account
  deposit       add a signed amount to an account balance
  transfer      record a transfer and reconcile the user's balance
  card-deposit  record a deposit paid with a card
  activity      list the latest transactions of an account

Run "bankctl <command> -h" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cli := newCLI(cfg, logging.NewWithWriter(stderr, cfg.LogLevel), stdout)
	cmd, ok := cli.commands()[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
	if err := cmd(args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "bankctl %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
