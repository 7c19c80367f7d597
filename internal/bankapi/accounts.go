package bankapi

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// GetAccount fetches an account by id.
func (c *Client) GetAccount(ctx context.Context, id, token string) (Account, error) {
	var account Account
	if err := c.do(ctx, fiber.MethodGet, "/accounts/"+url.PathEscape(id), token, nil, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// ListAccounts returns every account. The endpoint is public.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, fiber.MethodGet, "/accounts", "", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount applies a partial update and returns the account as stored.
func (c *Client) UpdateAccount(ctx context.Context, id string, patch AccountPatch, token string) (Account, error) {
	if err := validatePayload("account patch", patch); err != nil {
		return Account{}, err
	}
	var account Account
	if err := c.do(ctx, fiber.MethodPatch, "/accounts/"+url.PathEscape(id), token, patch, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// AdjustBalance applies a signed delta server side in a single call.
func (c *Client) AdjustBalance(ctx context.Context, id string, adj BalanceAdjustment, token string) (Account, error) {
	if err := validatePayload("balance adjustment", adj); err != nil {
		return Account{}, err
	}
	var account Account
	if err := c.do(ctx, fiber.MethodPost, "/accounts/"+url.PathEscape(id)+"/adjustments", token, adj, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}
