package bankapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// GetUserByEmail looks a user up by email.
func (c *Client) GetUserByEmail(ctx context.Context, email, token string) (User, error) {
	var user User
	if err := c.do(ctx, fiber.MethodGet, "/users/email/"+url.PathEscape(email), token, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUser resolves a user through the email lookup route, which also accepts ids.
func (c *Client) GetUser(ctx context.Context, id, token string) (User, error) {
	return c.GetUserByEmail(ctx, id, token)
}

// UpdateUser applies a profile patch.
func (c *Client) UpdateUser(ctx context.Context, id string, patch UserPatch, token string) (User, error) {
	if patch.empty() {
		return User{}, fmt.Errorf("%w: user patch: no fields set", ErrInvalidPayload)
	}
	if err := validatePayload("user patch", patch); err != nil {
		return User{}, err
	}
	var user User
	if err := c.do(ctx, fiber.MethodPatch, "/users/id/"+url.PathEscape(id), token, patch, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
