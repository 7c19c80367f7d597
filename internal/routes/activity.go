package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/activity"
)

// RegisterActivityRoutes wires transaction endpoints.
func RegisterActivityRoutes(r fiber.Router, h *activity.Handler, jwt fiber.Handler) {
	group := r.Group("/transactions", jwt)
	group.Post("/transfer", h.Transfer)
	group.Post("/accounts/:id/transferences", h.Deposit)
	group.Get("/account/:id/last", h.Last)
	group.Get("/:id", h.Get)
}
