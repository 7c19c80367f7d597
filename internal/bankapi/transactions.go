package bankapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// LastTransactions returns the most recent activity of an account, newest first.
// A limit of zero leaves the page size to the backend.
func (c *Client) LastTransactions(ctx context.Context, accountID, token string, limit int) ([]Transaction, error) {
	path := "/transactions/account/" + url.PathEscape(accountID) + "/last"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var txs []Transaction
	if err := c.do(ctx, fiber.MethodGet, path, token, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetTransaction fetches one activity record. accountID is accepted for call-site
// symmetry; the backend addresses transactions by id alone.
func (c *Client) GetTransaction(ctx context.Context, accountID, id, token string) (Transaction, error) {
	_ = accountID
	var tx Transaction
	if err := c.do(ctx, fiber.MethodGet, "/transactions/"+url.PathEscape(id), token, nil, &tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// CreateDeposit records a card deposit into an account.
func (c *Client) CreateDeposit(ctx context.Context, accountID string, req DepositRequest, token string) (Transaction, error) {
	if err := validatePayload("deposit", req); err != nil {
		return Transaction{}, err
	}
	var tx Transaction
	path := "/transactions/accounts/" + url.PathEscape(accountID) + "/transferences"
	if err := c.do(ctx, fiber.MethodPost, path, token, req, &tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// CreateTransfer records a transfer. The returned Amount is the backend's and
// may differ from the one sent.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest, token string) (Transaction, error) {
	if err := validatePayload("transfer", req); err != nil {
		return Transaction{}, err
	}
	var tx Transaction
	if err := c.do(ctx, fiber.MethodPost, "/transactions/transfer", token, req, &tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
