package accounts

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	ownerID := uuid.NewString()
	account, err := svc.Create(ctx, CreateInput{ID: ownerID, UserID: ownerID})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if account.ID != ownerID || len(account.CVU) != cvuLength || account.Alias == "" {
		t.Fatalf("unexpected account %+v", account)
	}

	fetched, err := svc.Owned(ctx, account.ID, ownerID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if fetched.Balance != 0 {
		t.Fatalf("expected zero balance, got %v", fetched.Balance)
	}

	if _, err := svc.Owned(ctx, account.ID, uuid.NewString()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{ID: ownerID, UserID: ownerID}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "not-a-uuid"}); err == nil {
		t.Fatalf("expected invalid user id error")
	}
}

func TestSetBalanceOverwrites(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	account, _ := svc.Create(ctx, CreateInput{UserID: uuid.NewString()})

	updated, err := svc.SetBalance(ctx, account.ID, 150)
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if updated.Balance != 150 {
		t.Fatalf("expected 150, got %v", updated.Balance)
	}
	if _, err := svc.SetBalance(ctx, account.ID, math.NaN()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := svc.SetBalance(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustIsAtomicAndDeduplicated(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	account, _ := svc.Create(ctx, CreateInput{UserID: uuid.NewString()})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Adjust(ctx, account.ID, 5, uuid.NewString()); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, err := svc.Adjust(ctx, account.ID, 5, "same"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	replayed, err := svc.Adjust(ctx, account.ID, 5, "same")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.Balance != 105 {
		t.Fatalf("expected 105 after replay, got %v", replayed.Balance)
	}

	if _, err := svc.Adjust(ctx, account.ID, 5, " "); err == nil {
		t.Fatalf("expected reference error")
	}
}
