// Package reconcile merges a signed amount into an account balance held by the
// backend.
//
// ReadModifyWrite is what the client does while the backend cannot apply a delta
// itself: fetch the account, add, patch. The two calls are not atomic, so
// concurrent reconciliations against one account can overwrite each other. Delta
// is the intended end state: one idempotent backend call carrying the delta.
// Both satisfy Reconciler so callers can switch without changing call sites.
package reconcile

import (
	"context"

	"github.com/congo-pay/homebank/internal/bankapi"
)

// Outcome says how far a reconciliation got.
type Outcome string

const (
	// SettledFully means the new balance was persisted.
	SettledFully Outcome = "settled_fully"
	// RecordedButNotReconciled means the balance write failed after the
	// preceding steps succeeded.
	RecordedButNotReconciled Outcome = "recorded_but_not_reconciled"
)

// Result describes one reconciliation.
type Result struct {
	Outcome         Outcome
	AccountID       string
	Amount          float64
	PreviousBalance float64
	NewBalance      float64
	// Err is the failure behind RecordedButNotReconciled.
	Err error
}

// Settled reports whether the balance was persisted.
func (r Result) Settled() bool {
	return r.Outcome == SettledFully
}

// Reconciler applies a signed amount to an account balance. An error means nothing
// was written; a persist failure after a successful read is reported in Result.
type Reconciler interface {
	Reconcile(ctx context.Context, amount float64, accountID, token string) (Result, error)
}

// AccountStore is the account access ReadModifyWrite needs.
type AccountStore interface {
	GetAccount(ctx context.Context, id, token string) (bankapi.Account, error)
	UpdateAccount(ctx context.Context, id string, patch bankapi.AccountPatch, token string) (bankapi.Account, error)
}

// Adjuster is the account access Delta needs.
type Adjuster interface {
	AdjustBalance(ctx context.Context, id string, adj bankapi.BalanceAdjustment, token string) (bankapi.Account, error)
}
