package reconcile

import (
	"context"
	"log/slog"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/logging"
)

// ReadModifyWrite fetches the account, adds the amount and patches the balance.
type ReadModifyWrite struct {
	accounts AccountStore
	logger   *slog.Logger
}

// NewReadModifyWrite builds the client-side reconciler.
func NewReadModifyWrite(accounts AccountStore, logger *slog.Logger) *ReadModifyWrite {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReadModifyWrite{accounts: accounts, logger: logger}
}

// Reconcile implements Reconciler. A failed fetch is returned as is and no patch
// is sent. A failed patch is logged and reported as RecordedButNotReconciled with
// a nil error.
func (r *ReadModifyWrite) Reconcile(ctx context.Context, amount float64, accountID, token string) (Result, error) {
	account, err := r.accounts.GetAccount(ctx, accountID, token)
	if err != nil {
		return Result{}, err
	}

	id := account.ID
	if id == "" {
		id = accountID
	}
	res := Result{
		AccountID:       id,
		Amount:          amount,
		PreviousBalance: account.Balance,
		NewBalance:      account.Balance + amount,
	}

	if _, err := r.accounts.UpdateAccount(ctx, id, bankapi.BalancePatch(res.NewBalance), token); err != nil {
		r.logger.ErrorContext(ctx, "balance not persisted",
			slog.String("account_id", id),
			slog.Float64("amount", amount),
			slog.Float64("new_balance", res.NewBalance),
			slog.Any("error", err),
		)
		res.Outcome = RecordedButNotReconciled
		res.Err = err
		return res, nil
	}

	res.Outcome = SettledFully
	return res, nil
}
