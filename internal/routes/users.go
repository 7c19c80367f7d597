package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/identity"
)

// RegisterUserRoutes wires profile endpoints.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler, jwt fiber.Handler) {
	r.Get("/users/email/:email", jwt, h.GetByEmail)
	r.Patch("/users/id/:id", jwt, h.Update)
}
