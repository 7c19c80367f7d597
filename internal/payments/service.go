// Package payments holds the two client-side money movements: a balance deposit
// and a peer transfer. Both finish by reconciling the affected balance through a
// reconcile.Reconciler.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/logging"
	"github.com/congo-pay/homebank/internal/notification"
	"github.com/congo-pay/homebank/internal/reconcile"
)

// ErrNotReconciled is returned in strict mode when an operation did not end
// SettledFully. It wraps the underlying failure.
var ErrNotReconciled = errors.New("balance not reconciled")

// Transactions records transfers with the backend.
type Transactions interface {
	CreateTransfer(ctx context.Context, req bankapi.TransferRequest, token string) (bankapi.Transaction, error)
}

// Service runs deposits and transfers.
type Service struct {
	reconciler   reconcile.Reconciler
	transactions Transactions
	notifier     notification.Notifier
	logger       *slog.Logger
	strict       bool
	now          func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithStrict makes Deposit and Transfer fail with ErrNotReconciled when the
// balance could not be persisted.
func WithStrict(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithClock overrides the clock used to date transfers.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a payment service. notifier may be nil.
func NewService(reconciler reconcile.Reconciler, transactions Transactions, notifier notification.Notifier, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Service{
		reconciler:   reconciler,
		transactions: transactions,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deposit adds a signed amount to an account balance. No transaction record is
// created. A failed account fetch is returned; a failed balance write is
// reported in the result.
func (s *Service) Deposit(ctx context.Context, amount float64, accountID, token string) (reconcile.Result, error) {
	res, err := s.reconciler.Reconcile(ctx, amount, accountID, token)
	if err != nil {
		s.logger.WarnContext(ctx, "deposit failed",
			slog.String("account_id", accountID),
			slog.Float64("amount", amount),
			slog.Any("error", err),
		)
		return reconcile.Result{}, err
	}
	return res, s.settle(ctx, res)
}

// TransferInput captures a peer transfer. Amount is the positive magnitude moved
// out of Origin. UserID is the account whose balance is reconciled afterwards.
type TransferInput struct {
	UserID      string
	Token       string
	Origin      string
	Destination string
	Amount      float64
	Name        string
}

// TransferResult pairs the recorded transaction with what happened to the balance.
type TransferResult struct {
	Transaction    bankapi.Transaction
	Reconciliation reconcile.Result
}

// Transfer records a transfer and then reconciles UserID's balance with the
// amount the backend echoed back. Once the transfer is recorded the transaction
// is always returned; outside strict mode the error is nil even when the
// balance was not updated.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	req := bankapi.TransferRequest{
		Type:        bankapi.TransactionTypeTransfer,
		Amount:      -input.Amount,
		Origin:      input.Origin,
		Destination: input.Destination,
		Name:        input.Name,
		Dated:       s.now().UTC(),
	}

	tx, err := s.transactions.CreateTransfer(ctx, req, input.Token)
	if err != nil {
		s.logger.ErrorContext(ctx, "transfer not recorded",
			slog.String("origin", input.Origin),
			slog.String("destination", input.Destination),
			slog.Float64("amount", req.Amount),
			slog.Any("error", err),
		)
		return TransferResult{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindTransferRecorded,
		Destination: input.Destination,
		Body:        fmt.Sprintf("transfer %s of %.2f from %s", tx.ID, tx.Amount, input.Origin),
	})

	res, err := s.reconciler.Reconcile(ctx, tx.Amount, input.UserID, input.Token)
	if err != nil {
		s.logger.ErrorContext(ctx, "transfer recorded but balance not reconciled",
			slog.String("transaction_id", tx.ID),
			slog.String("account_id", input.UserID),
			slog.Any("error", err),
		)
		res = reconcile.Result{
			Outcome:   reconcile.RecordedButNotReconciled,
			AccountID: input.UserID,
			Amount:    tx.Amount,
			Err:       err,
		}
	}

	out := TransferResult{Transaction: tx, Reconciliation: res}
	return out, s.settle(ctx, res)
}

// settle reports an unreconciled result and decides what error, if any, the
// caller sees.
func (s *Service) settle(ctx context.Context, res reconcile.Result) error {
	if res.Settled() {
		return nil
	}
	s.notify(ctx, notification.Message{
		Kind:        notification.KindBalanceUnreconciled,
		Destination: res.AccountID,
		Body:        fmt.Sprintf("balance of %s not updated by %.2f", res.AccountID, res.Amount),
	})
	if !s.strict {
		return nil
	}
	if res.Err != nil {
		return fmt.Errorf("%w: %w", ErrNotReconciled, res.Err)
	}
	return ErrNotReconciled
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}
