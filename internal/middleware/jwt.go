package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/auth"
	"github.com/congo-pay/homebank/internal/identity"
)

// UserIDKey is the fiber.Locals key holding the authenticated user id.
const UserIDKey = "user_id"

// UserLookup resolves token subjects to users.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// JWTAuth validates bearer access tokens and rejects tokens of deleted users.
func JWTAuth(tokens *auth.Tokens, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		if _, err := users.FindByID(c.UserContext(), claims.Subject); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unknown user")
		}

		c.Locals(UserIDKey, claims.Subject)
		return c.Next()
	}
}
