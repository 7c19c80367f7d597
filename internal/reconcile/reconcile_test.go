package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/bankapi/bankapitest"
	"github.com/congo-pay/homebank/internal/logging"
)

func setup(t *testing.T) (*bankapi.Client, *bankapitest.Backend) {
	t.Helper()
	backend := bankapitest.NewBackend(t)
	return bankapi.New(backend.URL(), logging.Discard()), backend
}

func TestReadModifyWriteDepositScenario(t *testing.T) {
	client, backend := setup(t)
	backend.SetAccount(bankapi.Account{ID: "acc1", Balance: 100})
	r := NewReadModifyWrite(client, logging.Discard())

	res, err := r.Reconcile(context.Background(), 50, "acc1", "tok")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Outcome != SettledFully || res.NewBalance != 150 || res.PreviousBalance != 100 {
		t.Fatalf("unexpected result %+v", res)
	}

	calls := backend.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected GET then PATCH, got %d calls", len(calls))
	}
	if calls[0].Method != fiber.MethodGet || calls[0].Path != "/accounts/acc1" {
		t.Fatalf("first call should fetch the account, got %s %s", calls[0].Method, calls[0].Path)
	}
	if calls[1].Method != fiber.MethodPatch || calls[1].Path != "/accounts/acc1" {
		t.Fatalf("second call should patch the account, got %s %s", calls[1].Method, calls[1].Path)
	}
	if string(calls[1].Body) != `{"balance":150}` {
		t.Fatalf("unexpected patch body %s", calls[1].Body)
	}
	if calls[1].Authorization != "Bearer tok" {
		t.Fatalf("patch must carry the token")
	}
}

func TestReadModifyWritePatchesBalancePlusAmount(t *testing.T) {
	cases := []struct {
		balance float64
		amount  float64
	}{
		{balance: 0, amount: 10},
		{balance: 100, amount: -75},
		{balance: 12.5, amount: 0.25},
		{balance: -3, amount: 3},
	}

	for _, tc := range cases {
		client, backend := setup(t)
		backend.SetAccount(bankapi.Account{ID: "acc", Balance: tc.balance})

		if _, err := NewReadModifyWrite(client, nil).Reconcile(context.Background(), tc.amount, "acc", "tok"); err != nil {
			t.Fatalf("reconcile %v by %v: %v", tc.balance, tc.amount, err)
		}

		patches := backend.CallsTo(fiber.MethodPatch, "/accounts/acc")
		if len(patches) != 1 {
			t.Fatalf("expected one patch, got %d", len(patches))
		}
		var body struct {
			Balance float64 `json:"balance"`
		}
		if err := patches[0].JSON(&body); err != nil {
			t.Fatalf("decode patch: %v", err)
		}
		if body.Balance != tc.balance+tc.amount {
			t.Fatalf("balance %v + amount %v: patched %v", tc.balance, tc.amount, body.Balance)
		}
	}
}

func TestReadModifyWriteFetchFailureSkipsPatch(t *testing.T) {
	client, backend := setup(t)
	r := NewReadModifyWrite(client, logging.Discard())

	_, err := r.Reconcile(context.Background(), 50, "missing", "tok")
	var apiErr *bankapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != "404" || !apiErr.Err {
		t.Fatalf("expected normalized 404, got %v", err)
	}
	if n := len(backend.CallsTo(fiber.MethodPatch, "/accounts/missing")); n != 0 {
		t.Fatalf("expected no patch, got %d", n)
	}
}

func TestReadModifyWritePatchFailureIsReportedNotReturned(t *testing.T) {
	client, backend := setup(t)
	backend.SetAccount(bankapi.Account{ID: "acc1", Balance: 100})
	backend.Fail(fiber.MethodPatch, "/accounts/acc1", fiber.StatusInternalServerError)
	r := NewReadModifyWrite(client, logging.Discard())

	res, err := r.Reconcile(context.Background(), 50, "acc1", "tok")
	if err != nil {
		t.Fatalf("persist failure must not be returned, got %v", err)
	}
	if res.Outcome != RecordedButNotReconciled || res.Settled() {
		t.Fatalf("expected unreconciled outcome, got %+v", res)
	}
	if !bankapi.IsStatus(res.Err, fiber.StatusInternalServerError) {
		t.Fatalf("expected 500 in result, got %v", res.Err)
	}
	if account, _ := backend.Account("acc1"); account.Balance != 100 {
		t.Fatalf("balance should be untouched, got %v", account.Balance)
	}
}

// gatedStore lets both readers see the same balance before either writes.
type gatedStore struct {
	mu      sync.Mutex
	balance float64
	reads   sync.WaitGroup
}

func (s *gatedStore) GetAccount(_ context.Context, id, _ string) (bankapi.Account, error) {
	s.mu.Lock()
	account := bankapi.Account{ID: id, Balance: s.balance}
	s.mu.Unlock()
	s.reads.Done()
	s.reads.Wait()
	return account, nil
}

func (s *gatedStore) UpdateAccount(_ context.Context, id string, patch bankapi.AccountPatch, _ string) (bankapi.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = *patch.Balance
	return bankapi.Account{ID: id, Balance: s.balance}, nil
}

func TestReadModifyWriteLosesConcurrentUpdates(t *testing.T) {
	store := &gatedStore{balance: 100}
	store.reads.Add(2)
	r := NewReadModifyWrite(store, logging.Discard())

	var wg sync.WaitGroup
	for _, amount := range []float64{10, 20} {
		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			if _, err := r.Reconcile(context.Background(), amount, "acc1", "tok"); err != nil {
				t.Errorf("reconcile %v: %v", amount, err)
			}
		}(amount)
	}
	wg.Wait()

	if store.balance == 130 {
		t.Fatalf("both updates applied; expected the last writer to win")
	}
	if store.balance != 110 && store.balance != 120 {
		t.Fatalf("unexpected balance %v", store.balance)
	}
}

func TestDeltaAdjustsInOneCall(t *testing.T) {
	client, backend := setup(t)
	backend.SetAccount(bankapi.Account{ID: "acc1", Balance: 100})
	d := NewDelta(client, logging.Discard())

	res, err := d.Reconcile(context.Background(), -75, "acc1", "tok")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Outcome != SettledFully || res.NewBalance != 25 {
		t.Fatalf("unexpected result %+v", res)
	}

	calls := backend.Calls()
	if len(calls) != 1 || calls[0].Method != fiber.MethodPost || calls[0].Path != "/accounts/acc1/adjustments" {
		t.Fatalf("expected a single adjustment call, got %+v", calls)
	}
	var adj bankapi.BalanceAdjustment
	if err := calls[0].JSON(&adj); err != nil {
		t.Fatalf("decode adjustment: %v", err)
	}
	if adj.Delta != -75 || adj.Reference == "" {
		t.Fatalf("unexpected adjustment %+v", adj)
	}
}

func TestDeltaFailureIsReturned(t *testing.T) {
	client, _ := setup(t)
	d := NewDelta(client, logging.Discard())

	if _, err := d.Reconcile(context.Background(), 5, "missing", "tok"); !bankapi.IsStatus(err, fiber.StatusNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}
