package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: " Ana@Example.com ", Password: "secret1", FirstName: "Ana", LastName: "Diaz"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if string(user.PasswordHash) == "secret1" {
		t.Fatalf("password must be hashed")
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "ana@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndShortPasswords(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "123"}); err == nil {
		t.Fatalf("expected short password error")
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "123456"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "A@example.com", Password: "123456"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLookupAndUpdate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "123456", FirstName: "Bea"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	byEmail, err := svc.Lookup(ctx, "b@example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("lookup by email: %v", err)
	}
	byID, err := svc.Lookup(ctx, user.ID)
	if err != nil || byID.Email != user.Email {
		t.Fatalf("lookup by id: %v", err)
	}

	phone := "5551234"
	updated, err := svc.Update(ctx, user.ID, Patch{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone || updated.FirstName != "Bea" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", Patch{Phone: &phone}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
