// Package bankapitest runs an in-process banking backend that records every
// request, for tests of code built on bankapi.Client.
package bankapitest

import (
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/bankapi"
)

const prefix = "/api"

// Call is one request observed by the backend. Path is relative to the API root.
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

// JSON decodes the recorded body into v.
func (c Call) JSON(v any) error {
	return json.Unmarshal(c.Body, v)
}

type stub struct {
	status int
	body   any
}

// Backend is a recording fake of the banking API.
type Backend struct {
	url string

	mu           sync.Mutex
	accounts     map[string]bankapi.Account
	transactions []bankapi.Transaction
	adjustments  map[string]bool
	calls        []Call
	stubs        map[string]stub
	echoAmount   *float64
}

// NewBackend starts a backend on a loopback port and stops it when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		accounts:    make(map[string]bankapi.Account),
		adjustments: make(map[string]bool),
		stubs:       make(map[string]stub),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(b.intercept)
	api := app.Group(prefix)
	api.Get("/accounts", b.listAccounts)
	api.Get("/accounts/:id", b.getAccount)
	api.Patch("/accounts/:id", b.patchAccount)
	api.Post("/accounts/:id/adjustments", b.adjustAccount)
	api.Post("/transactions/transfer", b.createTransfer)
	api.Post("/transactions/accounts/:id/transferences", b.createDeposit)
	api.Get("/transactions/account/:id/last", b.lastTransactions)
	api.Get("/transactions/:id", b.getTransaction)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.ShutdownWithTimeout(time.Second)
	})

	b.url = "http://" + ln.Addr().String() + prefix
	return b
}

// ClosedURL returns a base URL nothing listens on.
func ClosedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return "http://" + addr + prefix
}

// URL is the API root to hand to bankapi.New.
func (b *Backend) URL() string {
	return b.url
}

// SetAccount creates or replaces an account.
func (b *Backend) SetAccount(account bankapi.Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[account.ID] = account
}

// Account returns the stored account.
func (b *Backend) Account(id string) (bankapi.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[id]
	return account, ok
}

// Respond makes every request matching method and path answer with status and
// body (JSON) instead of reaching the default handlers. A nil body sends the
// status text only.
func (b *Backend) Respond(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stubs[method+" "+path] = stub{status: status, body: body}
}

// Fail is Respond without a body.
func (b *Backend) Fail(method, path string, status int) {
	b.Respond(method, path, status, nil)
}

// EchoTransferAmount makes created transfers report amount instead of the
// amount that was sent.
func (b *Backend) EchoTransferAmount(amount float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.echoAmount = &amount
}

// Calls returns every recorded request in arrival order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallsTo returns the recorded requests for one method and path.
func (b *Backend) CallsTo(method, path string) []Call {
	var out []Call
	for _, call := range b.Calls() {
		if call.Method == method && call.Path == path {
			out = append(out, call)
		}
	}
	return out
}

func (b *Backend) intercept(c *fiber.Ctx) error {
	call := Call{
		Method:        c.Method(),
		Path:          strings.TrimPrefix(c.Path(), prefix),
		Query:         string(c.Request().URI().QueryString()),
		Authorization: c.Get(fiber.HeaderAuthorization),
		ContentType:   c.Get(fiber.HeaderContentType),
		Body:          append([]byte(nil), c.Body()...),
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	s, stubbed := b.stubs[call.Method+" "+call.Path]
	b.mu.Unlock()

	if !stubbed {
		return c.Next()
	}
	if s.body == nil {
		return c.SendStatus(s.status)
	}
	return c.Status(s.status).JSON(s.body)
}

func (b *Backend) listAccounts(c *fiber.Ctx) error {
	b.mu.Lock()
	accounts := make([]bankapi.Account, 0, len(b.accounts))
	for _, account := range b.accounts {
		accounts = append(accounts, account)
	}
	b.mu.Unlock()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return c.JSON(accounts)
}

func (b *Backend) getAccount(c *fiber.Ctx) error {
	account, ok := b.Account(c.Params("id"))
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(account)
}

func (b *Backend) patchAccount(c *fiber.Ctx) error {
	var patch struct {
		Balance *float64 `json:"balance"`
	}
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[c.Params("id")]
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if patch.Balance != nil {
		account.Balance = *patch.Balance
	}
	b.accounts[account.ID] = account
	return c.JSON(account)
}

func (b *Backend) adjustAccount(c *fiber.Ctx) error {
	var adj bankapi.BalanceAdjustment
	if err := json.Unmarshal(c.Body(), &adj); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[c.Params("id")]
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if !b.adjustments[adj.Reference] {
		b.adjustments[adj.Reference] = true
		account.Balance += adj.Delta
		b.accounts[account.ID] = account
	}
	return c.JSON(account)
}

func (b *Backend) createTransfer(c *fiber.Ctx) error {
	var req bankapi.TransferRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	amount := req.Amount
	if b.echoAmount != nil {
		amount = *b.echoAmount
	}
	tx := bankapi.Transaction{
		ID:          fmt.Sprintf("tx-%d", len(b.transactions)+1),
		AccountID:   req.Origin,
		Type:        req.Type,
		Amount:      amount,
		Origin:      req.Origin,
		Destination: req.Destination,
		Name:        req.Name,
		Dated:       req.Dated,
	}
	b.transactions = append(b.transactions, tx)
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (b *Backend) createDeposit(c *fiber.Ctx) error {
	var req bankapi.DepositRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	tx := bankapi.Transaction{
		ID:          fmt.Sprintf("tx-%d", len(b.transactions)+1),
		AccountID:   c.Params("id"),
		Type:        bankapi.TransactionTypeDeposit,
		Amount:      req.Amount,
		Origin:      req.CardNumber,
		Destination: c.Params("id"),
		Dated:       time.Now().UTC(),
	}
	b.transactions = append(b.transactions, tx)
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (b *Backend) lastTransactions(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []bankapi.Transaction{}
	for i := len(b.transactions) - 1; i >= 0; i-- {
		tx := b.transactions[i]
		if tx.AccountID == id || tx.Destination == id {
			out = append(out, tx)
		}
	}
	return c.JSON(out)
}

func (b *Backend) getTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.transactions {
		if tx.ID == id {
			return c.JSON(tx)
		}
	}
	return c.SendStatus(fiber.StatusNotFound)
}
