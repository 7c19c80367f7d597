package bankapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/bankapi/bankapitest"
	"github.com/congo-pay/homebank/internal/logging"
)

func newClient(t *testing.T) (*bankapi.Client, *bankapitest.Backend) {
	t.Helper()
	backend := bankapitest.NewBackend(t)
	return bankapi.New(backend.URL(), logging.Discard()), backend
}

func TestNewRequestHeaders(t *testing.T) {
	req, err := bankapi.NewRequest("", "tok", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if req.Method != fiber.MethodGet {
		t.Fatalf("expected default GET, got %s", req.Method)
	}
	if got := req.Headers[fiber.HeaderAuthorization]; got != "Bearer tok" {
		t.Fatalf("unexpected authorization %q", got)
	}
	if got := req.Headers[fiber.HeaderContentType]; got != fiber.MIMEApplicationJSON {
		t.Fatalf("unexpected content type %q", got)
	}
	if req.Body != nil {
		t.Fatalf("expected no body, got %s", req.Body)
	}

	anon, err := bankapi.NewRequest(fiber.MethodPatch, "", bankapi.BalancePatch(150))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	auth, ok := anon.Headers[fiber.HeaderAuthorization]
	if !ok || auth != "" {
		t.Fatalf("expected empty authorization header, got %q (present=%v)", auth, ok)
	}
	if string(anon.Body) != `{"balance":150}` {
		t.Fatalf("unexpected body %s", anon.Body)
	}
}

func TestGetAccountSendsBearerToken(t *testing.T) {
	client, backend := newClient(t)
	backend.SetAccount(bankapi.Account{ID: "acc1", Balance: 100})

	account, err := client.GetAccount(context.Background(), "acc1", "tok")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Balance != 100 {
		t.Fatalf("expected balance 100, got %v", account.Balance)
	}

	calls := backend.CallsTo(fiber.MethodGet, "/accounts/acc1")
	if len(calls) != 1 {
		t.Fatalf("expected one GET, got %d", len(calls))
	}
	if calls[0].Authorization != "Bearer tok" {
		t.Fatalf("unexpected authorization %q", calls[0].Authorization)
	}
	if calls[0].ContentType != fiber.MIMEApplicationJSON {
		t.Fatalf("unexpected content type %q", calls[0].ContentType)
	}
}

func TestNonOKStatusIsNormalized(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.GetAccount(context.Background(), "missing", "tok")
	var apiErr *bankapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != "404" || apiErr.StatusText != "Not Found" || !apiErr.Err {
		t.Fatalf("unexpected rejection %+v", apiErr)
	}
	if !bankapi.IsStatus(err, fiber.StatusNotFound) {
		t.Fatalf("IsStatus should match 404")
	}
}

func TestNetworkFailureUsesFallback(t *testing.T) {
	client := bankapi.New(bankapitest.ClosedURL(t), logging.Discard())

	_, err := client.GetAccount(context.Background(), "acc1", "tok")
	var apiErr *bankapi.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != bankapi.FallbackStatus || apiErr.StatusText != bankapi.FallbackStatusText || !apiErr.Err {
		t.Fatalf("unexpected rejection %+v", apiErr)
	}
	if apiErr.Code() != 0 {
		t.Fatalf("expected code 0, got %d", apiErr.Code())
	}
}

func TestUndecodableBodyUsesFallback(t *testing.T) {
	client, backend := newClient(t)
	backend.Respond(fiber.MethodGet, "/accounts/acc1", fiber.StatusOK, "not an account")

	_, err := client.GetAccount(context.Background(), "acc1", "tok")
	var apiErr *bankapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != bankapi.FallbackStatus {
		t.Fatalf("expected fallback rejection, got %v", err)
	}
}

func TestCanceledContextSendsNothing(t *testing.T) {
	client, backend := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetAccount(ctx, "acc1", "tok")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("expected no requests, got %d", len(backend.Calls()))
	}
}

func TestInvalidPayloadsAreNotSent(t *testing.T) {
	client, backend := newClient(t)
	ctx := context.Background()

	if _, err := client.UpdateAccount(ctx, "acc1", bankapi.AccountPatch{}, "tok"); !errors.Is(err, bankapi.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for empty patch, got %v", err)
	}
	if _, err := client.CreateTransfer(ctx, bankapi.TransferRequest{Type: bankapi.TransactionTypeTransfer, Amount: -5, Destination: "acc2"}, "tok"); !errors.Is(err, bankapi.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for missing origin, got %v", err)
	}
	if _, err := client.CreateDeposit(ctx, "acc1", bankapi.DepositRequest{AccountID: "acc1", CardNumber: "4111111111111111", Amount: -1}, "tok"); !errors.Is(err, bankapi.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for negative deposit, got %v", err)
	}
	if _, err := client.UpdateUser(ctx, "u1", bankapi.UserPatch{}, "tok"); !errors.Is(err, bankapi.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for empty user patch, got %v", err)
	}
	if _, err := client.Login(ctx, bankapi.Credentials{Email: "not-an-email", Password: "x"}); !errors.Is(err, bankapi.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for bad email, got %v", err)
	}

	if n := len(backend.Calls()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestUpdateAccountPatchesBalance(t *testing.T) {
	client, backend := newClient(t)
	backend.SetAccount(bankapi.Account{ID: "acc1", Balance: 10})

	updated, err := client.UpdateAccount(context.Background(), "acc1", bankapi.BalancePatch(0), "tok")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Balance != 0 {
		t.Fatalf("expected zero balance, got %v", updated.Balance)
	}

	calls := backend.CallsTo(fiber.MethodPatch, "/accounts/acc1")
	if len(calls) != 1 || string(calls[0].Body) != `{"balance":0}` {
		t.Fatalf("unexpected patch calls %+v", calls)
	}
}

func TestTransactionAccessors(t *testing.T) {
	client, backend := newClient(t)
	ctx := context.Background()

	deposit, err := client.CreateDeposit(ctx, "acc1", bankapi.DepositRequest{AccountID: "acc1", CardNumber: "4111111111111111", Amount: 20}, "tok")
	if err != nil {
		t.Fatalf("create deposit: %v", err)
	}
	if deposit.Type != bankapi.TransactionTypeDeposit || deposit.Amount != 20 {
		t.Fatalf("unexpected deposit %+v", deposit)
	}
	if len(backend.CallsTo(fiber.MethodPost, "/transactions/accounts/acc1/transferences")) != 1 {
		t.Fatalf("deposit not posted to transferences route")
	}

	fetched, err := client.GetTransaction(ctx, "acc1", deposit.ID, "tok")
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if fetched.ID != deposit.ID {
		t.Fatalf("expected %s, got %s", deposit.ID, fetched.ID)
	}

	last, err := client.LastTransactions(ctx, "acc1", "tok", 5)
	if err != nil {
		t.Fatalf("last transactions: %v", err)
	}
	if len(last) != 1 {
		t.Fatalf("expected one transaction, got %d", len(last))
	}
	calls := backend.CallsTo(fiber.MethodGet, "/transactions/account/acc1/last")
	if len(calls) != 1 || calls[0].Query != "limit=5" {
		t.Fatalf("unexpected last calls %+v", calls)
	}
}

func TestCardAccessors(t *testing.T) {
	client, backend := newClient(t)
	ctx := context.Background()

	card := bankapi.Card{ID: "c1", AccountID: "acc1", Number: "4111111111111111", FirstLastName: "Ana Diaz", ExpirationDate: "12/29"}
	backend.Respond(fiber.MethodGet, "/accounts/acc1/cards", fiber.StatusOK, []bankapi.Card{card})
	backend.Respond(fiber.MethodGet, "/accounts/acc1/cards/c1", fiber.StatusOK, card)
	backend.Respond(fiber.MethodPost, "/accounts/acc1/cards", fiber.StatusCreated, card)
	backend.Respond(fiber.MethodDelete, "/accounts/acc1/cards/c1", fiber.StatusOK, map[string]string{"status": "deleted"})

	cards, err := client.ListCards(ctx, "acc1", "tok")
	if err != nil || len(cards) != 1 {
		t.Fatalf("list cards: %v (%d)", err, len(cards))
	}

	got, err := client.GetCard(ctx, "acc1", "c1")
	if err != nil || got.ID != "c1" {
		t.Fatalf("get card: %v (%+v)", err, got)
	}
	if calls := backend.CallsTo(fiber.MethodGet, "/accounts/acc1/cards/c1"); calls[0].Authorization != "" {
		t.Fatalf("GetCard must not send a token, got %q", calls[0].Authorization)
	}

	created, err := client.CreateCard(ctx, "acc1", bankapi.NewCard{Number: "4111111111111111", FirstLastName: "Ana Diaz", ExpirationDate: "12/29", Cod: "123"}, "tok")
	if err != nil || created.ID != "c1" {
		t.Fatalf("create card: %v", err)
	}

	if err := client.DeleteCard(ctx, "acc1", "c1", "tok"); err != nil {
		t.Fatalf("delete card: %v", err)
	}
}

func TestUserAndAuthAccessors(t *testing.T) {
	client, backend := newClient(t)
	ctx := context.Background()

	user := bankapi.User{ID: "u1", Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz"}
	backend.Respond(fiber.MethodGet, "/users/email/ana@example.com", fiber.StatusOK, user)
	backend.Respond(fiber.MethodPatch, "/users/id/u1", fiber.StatusOK, user)
	backend.Respond(fiber.MethodPost, "/auth/login", fiber.StatusOK, bankapi.Session{Token: "tok", UserID: "u1"})

	got, err := client.GetUserByEmail(ctx, "ana@example.com", "tok")
	if err != nil || got.ID != "u1" {
		t.Fatalf("get user by email: %v", err)
	}

	first := "Ana"
	if _, err := client.UpdateUser(ctx, "u1", bankapi.UserPatch{FirstName: &first}, "tok"); err != nil {
		t.Fatalf("update user: %v", err)
	}

	session, err := client.Login(ctx, bankapi.Credentials{Email: "ana@example.com", Password: "secret"})
	if err != nil || session.Token != "tok" {
		t.Fatalf("login: %v", err)
	}
	if calls := backend.CallsTo(fiber.MethodPost, "/auth/login"); calls[0].Authorization != "" {
		t.Fatalf("login must not send a token")
	}
}
