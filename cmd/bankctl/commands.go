package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/config"
	"github.com/congo-pay/homebank/internal/funding"
	"github.com/congo-pay/homebank/internal/notification"
	"github.com/congo-pay/homebank/internal/payments"
	"github.com/congo-pay/homebank/internal/reconcile"
)

var errUsage = errors.New("usage")

type cli struct {
	cfg      config.Config
	logger   *slog.Logger
	out      io.Writer
	client   *bankapi.Client
	payments *payments.Service
	funding  *funding.Service
}

func newCLI(cfg config.Config, logger *slog.Logger, out io.Writer) *cli {
	client := bankapi.New(cfg.APIBaseURL, logger)

	var reconciler reconcile.Reconciler
	switch cfg.ReconcileStrategy {
	case config.StrategyDelta:
		reconciler = reconcile.NewDelta(client, logger)
	default:
		reconciler = reconcile.NewReadModifyWrite(client, logger)
	}

	notifier := notification.NewLoggerNotifier(logger)
	return &cli{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		client:   client,
		payments: payments.NewService(reconciler, client, notifier, logger, payments.WithStrict(cfg.StrictReconcile)),
		funding:  funding.NewService(client, nil, logger),
	}
}

func (c *cli) commands() map[string]func([]string) error {
	return map[string]func([]string) error{
		"login":        c.login,
		"account":      c.account,
		"deposit":      c.deposit,
		"transfer":     c.transfer,
		"card-deposit": c.cardDeposit,
		"activity":     c.activity,
	}
}

func (c *cli) flags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	token := fs.String("token", c.cfg.Token, "bearer token (defaults to BANK_TOKEN)")
	return fs, token
}

func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range required {
		if !set[name] {
			fmt.Fprintf(fs.Output(), "missing -%s\n", name)
			fs.Usage()
			return errUsage
		}
	}
	return nil
}

// signalContext is canceled on SIGINT so an in-flight request is abandoned.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) login(args []string) error {
	fs, _ := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parse(fs, args, "email", "password"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	session, err := c.client.Login(ctx, bankapi.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	return c.print(session)
}

func (c *cli) account(args []string) error {
	fs, token := c.flags("account")
	id := fs.String("id", "", "account id")
	if err := parse(fs, args, "id"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	account, err := c.client.GetAccount(ctx, *id, *token)
	if err != nil {
		return err
	}
	return c.print(account)
}

// resultView is reconcile.Result with the error flattened for JSON.
type resultView struct {
	Outcome         reconcile.Outcome `json:"outcome"`
	AccountID       string            `json:"accountId"`
	Amount          float64           `json:"amount"`
	PreviousBalance float64           `json:"previousBalance"`
	NewBalance      float64           `json:"newBalance"`
	Error           string            `json:"error,omitempty"`
}

func viewOf(res reconcile.Result) resultView {
	view := resultView{
		Outcome:         res.Outcome,
		AccountID:       res.AccountID,
		Amount:          res.Amount,
		PreviousBalance: res.PreviousBalance,
		NewBalance:      res.NewBalance,
	}
	if res.Err != nil {
		view.Error = res.Err.Error()
	}
	return view
}

func (c *cli) deposit(args []string) error {
	fs, token := c.flags("deposit")
	accountID := fs.String("account", "", "account id")
	amount := fs.Float64("amount", 0, "signed amount to add")
	if err := parse(fs, args, "account", "amount"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := c.payments.Deposit(ctx, *amount, *accountID, *token)
	if res.Outcome != "" {
		if perr := c.print(viewOf(res)); perr != nil {
			return perr
		}
	}
	return err
}

func (c *cli) transfer(args []string) error {
	fs, token := c.flags("transfer")
	userID := fs.String("user", "", "user id whose balance is reconciled")
	origin := fs.String("origin", "", "origin account id")
	destination := fs.String("destination", "", "destination account id")
	amount := fs.Float64("amount", 0, "amount to move out of origin")
	name := fs.String("name", "", "transfer description")
	if err := parse(fs, args, "user", "origin", "destination", "amount"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := c.payments.Transfer(ctx, payments.TransferInput{
		UserID:      *userID,
		Token:       *token,
		Origin:      *origin,
		Destination: *destination,
		Amount:      *amount,
		Name:        *name,
	})
	if out.Transaction.ID != "" {
		perr := c.print(struct {
			Transaction    bankapi.Transaction `json:"transaction"`
			Reconciliation resultView          `json:"reconciliation"`
		}{out.Transaction, viewOf(out.Reconciliation)})
		if perr != nil {
			return perr
		}
	}
	return err
}

func (c *cli) cardDeposit(args []string) error {
	fs, token := c.flags("card-deposit")
	accountID := fs.String("account", "", "account id")
	card := fs.String("card", "", "card number")
	amount := fs.Float64("amount", 0, "amount to deposit")
	if err := parse(fs, args, "account", "card", "amount"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := c.funding.CardDeposit(ctx, funding.CardDepositInput{AccountID: *accountID, CardNumber: *card, Amount: *amount, Token: *token})
	if err != nil {
		return err
	}
	return c.print(res.Transaction)
}

func (c *cli) activity(args []string) error {
	fs, token := c.flags("activity")
	accountID := fs.String("account", "", "account id")
	limit := fs.Int("limit", 10, "number of transactions")
	if err := parse(fs, args, "account"); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	txs, err := c.client.LastTransactions(ctx, *accountID, *token, *limit)
	if err != nil {
		return err
	}
	return c.print(txs)
}
