package bankapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := validatePayload("credentials", creds); err != nil {
		return Session{}, err
	}
	var session Session
	if err := c.do(ctx, fiber.MethodPost, "/auth/login", "", creds, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Register creates a user and returns its first session.
func (c *Client) Register(ctx context.Context, user NewUser) (Session, error) {
	if err := validatePayload("registration", user); err != nil {
		return Session{}, err
	}
	var session Session
	if err := c.do(ctx, fiber.MethodPost, "/auth/register", "", user, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}
