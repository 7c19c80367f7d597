package accounts

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Response is the wire view of an account.
type Response struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId"`
	Alias   string  `json:"alias"`
	CVU     string  `json:"cvu"`
	Balance float64 `json:"balance"`
}

// ToResponse converts an account for the wire.
func ToResponse(account Account) Response {
	return Response{ID: account.ID, UserID: account.UserID, Alias: account.Alias, CVU: account.CVU, Balance: account.Balance}
}

type patchRequest struct {
	Balance *float64 `json:"balance" validate:"required"`
}

type adjustRequest struct {
	Delta     float64 `json:"delta"`
	Reference string  `json:"reference" validate:"required"`
}

// List serves GET /accounts.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]Response, 0, len(list))
	for _, account := range list {
		out = append(out, ToResponse(account))
	}
	return c.JSON(out)
}

// Get serves GET /accounts/:id for the owner.
func (h *Handler) Get(c *fiber.Ctx) error {
	account, err := h.service.Owned(c.UserContext(), c.Params("id"), userID(c))
	if err != nil {
		return MapError(err)
	}
	return c.JSON(ToResponse(account))
}

// Patch serves PATCH /accounts/:id. Only the balance can be patched.
func (h *Handler) Patch(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	id := c.Params("id")
	if _, err := h.service.Owned(c.UserContext(), id, userID(c)); err != nil {
		return MapError(err)
	}
	account, err := h.service.SetBalance(c.UserContext(), id, *req.Balance)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(ToResponse(account))
}

// Adjust serves POST /accounts/:id/adjustments.
func (h *Handler) Adjust(c *fiber.Ctx) error {
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	id := c.Params("id")
	if _, err := h.service.Owned(c.UserContext(), id, userID(c)); err != nil {
		return MapError(err)
	}
	account, err := h.service.Adjust(c.UserContext(), id, req.Delta, req.Reference)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(ToResponse(account))
}

// MapError translates account errors to HTTP errors.
func MapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}
