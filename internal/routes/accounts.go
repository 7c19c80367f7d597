package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/accounts"
	"github.com/congo-pay/homebank/internal/cards"
)

// RegisterAccountRoutes wires account and card endpoints. Listing accounts and
// reading a single card are public.
func RegisterAccountRoutes(r fiber.Router, h *accounts.Handler, ch *cards.Handler, jwt fiber.Handler) {
	r.Get("/accounts", h.List)
	r.Get("/accounts/:id", jwt, h.Get)
	r.Patch("/accounts/:id", jwt, h.Patch)
	r.Post("/accounts/:id/adjustments", jwt, h.Adjust)

	r.Get("/accounts/:id/cards", jwt, ch.List)
	r.Post("/accounts/:id/cards", jwt, ch.Create)
	r.Get("/accounts/:id/cards/:cardId", ch.Get)
	r.Delete("/accounts/:id/cards/:cardId", jwt, ch.Delete)
}
