package reconcile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/logging"
)

// Delta sends the amount to the backend in one call and lets it apply the change.
// Each call carries a fresh reference, so a resubmitted request is not applied twice.
type Delta struct {
	accounts Adjuster
	logger   *slog.Logger
}

// NewDelta builds the backend-delegating reconciler.
func NewDelta(accounts Adjuster, logger *slog.Logger) *Delta {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Delta{accounts: accounts, logger: logger}
}

// Reconcile implements Reconciler.
func (d *Delta) Reconcile(ctx context.Context, amount float64, accountID, token string) (Result, error) {
	reference := uuid.NewString()
	account, err := d.accounts.AdjustBalance(ctx, accountID, bankapi.BalanceAdjustment{Delta: amount, Reference: reference}, token)
	if err != nil {
		d.logger.WarnContext(ctx, "balance adjustment rejected",
			slog.String("account_id", accountID),
			slog.String("reference", reference),
			slog.Any("error", err),
		)
		return Result{}, err
	}

	return Result{
		Outcome:         SettledFully,
		AccountID:       account.ID,
		Amount:          amount,
		PreviousBalance: account.Balance - amount,
		NewBalance:      account.Balance,
	}, nil
}
