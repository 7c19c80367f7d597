package cards

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() *Service {
	svc := NewService(NewMemoryRepository())
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateListDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	card, err := svc.Create(ctx, CreateInput{AccountID: "acc1", Number: "4111 1111 1111 1111", FirstLastName: "Ana Diaz", ExpirationDate: "12/29", Cod: "123"})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if card.Number != "4111111111111111" {
		t.Fatalf("expected normalized number, got %q", card.Number)
	}

	if _, err := svc.Create(ctx, CreateInput{AccountID: "acc1", Number: "4111111111111111", FirstLastName: "Ana Diaz", ExpirationDate: "12/29", Cod: "123"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	list, err := svc.List(ctx, "acc1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v (%d)", err, len(list))
	}
	if other, _ := svc.List(ctx, "acc2"); len(other) != 0 {
		t.Fatalf("cards leaked across accounts")
	}

	if _, err := svc.Get(ctx, "acc2", card.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found through another account, got %v", err)
	}
	if err := svc.Delete(ctx, "acc1", card.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "acc1", card.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []CreateInput{
		{AccountID: "acc1", Number: "4111", FirstLastName: "A", ExpirationDate: "12/29", Cod: "123"},
		{AccountID: "acc1", Number: "4111111111111111", FirstLastName: "A", ExpirationDate: "12/29", Cod: "12"},
		{AccountID: "acc1", Number: "4111111111111111", FirstLastName: " ", ExpirationDate: "12/29", Cod: "123"},
		{AccountID: "acc1", Number: "4111111111111111", FirstLastName: "A", ExpirationDate: "2029-12", Cod: "123"},
		{AccountID: "acc1", Number: "4111111111111111", FirstLastName: "A", ExpirationDate: "05/25", Cod: "123"},
	}
	for i, input := range cases {
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrInvalidCard) {
			t.Fatalf("case %d: expected invalid card, got %v", i, err)
		}
	}

	if _, err := svc.Create(ctx, CreateInput{AccountID: "acc1", Number: "4111111111111111", FirstLastName: "A", ExpirationDate: "06/25", Cod: "1234"}); err != nil {
		t.Fatalf("card valid through the current month should be accepted: %v", err)
	}
}
