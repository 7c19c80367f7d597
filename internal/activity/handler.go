package activity

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/accounts"
)

var validate = validator.New()

// Handler exposes transaction endpoints.
type Handler struct {
	service  *Service
	accounts *accounts.Service
}

// NewHandler constructs a transaction handler.
func NewHandler(service *Service, accountSvc *accounts.Service) *Handler {
	return &Handler{service: service, accounts: accountSvc}
}

// Response is the wire view of a transaction.
type Response struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Name        string    `json:"name,omitempty"`
	Dated       time.Time `json:"dated"`
}

func toResponse(tx Transaction) Response {
	return Response{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Origin:      tx.Origin,
		Destination: tx.Destination,
		Name:        tx.Name,
		Dated:       tx.Dated,
	}
}

type transferRequest struct {
	Type        string    `json:"type" validate:"required,eq=Transfer"`
	Amount      float64   `json:"amount"`
	Origin      string    `json:"origin" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Name        string    `json:"name"`
	Dated       time.Time `json:"dated"`
}

type depositRequest struct {
	AccountID  string  `json:"accountId"`
	CardNumber string  `json:"cardNumber" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
}

// Transfer serves POST /transactions/transfer. The caller must own the origin.
// The transfer is recorded as sent; balances are left to the client.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.owns(c, req.Origin); err != nil {
		return err
	}
	if _, err := h.accounts.Get(c.UserContext(), req.Destination); err != nil {
		return accounts.MapError(err)
	}
	tx, err := h.service.Transfer(c.UserContext(), TransferInput{
		Amount:      req.Amount,
		Origin:      req.Origin,
		Destination: req.Destination,
		Name:        req.Name,
		Dated:       req.Dated,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(tx))
}

// Deposit serves POST /transactions/accounts/:id/transferences.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	accountID := c.Params("id")
	if err := h.owns(c, accountID); err != nil {
		return err
	}
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.AccountID != "" && req.AccountID != accountID {
		return fiber.NewError(http.StatusBadRequest, "account id mismatch")
	}
	tx, err := h.service.Deposit(c.UserContext(), accountID, req.CardNumber, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(tx))
}

// Last serves GET /transactions/account/:id/last?limit=n.
func (h *Handler) Last(c *fiber.Ctx) error {
	accountID := c.Params("id")
	if err := h.owns(c, accountID); err != nil {
		return err
	}
	list, err := h.service.Last(c.UserContext(), accountID, c.QueryInt("limit", defaultLimit))
	if err != nil {
		return mapError(err)
	}
	out := make([]Response, 0, len(list))
	for _, tx := range list {
		out = append(out, toResponse(tx))
	}
	return c.JSON(out)
}

// Get serves GET /transactions/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	tx, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(toResponse(tx))
}

func (h *Handler) owns(c *fiber.Ctx, accountID string) error {
	uid, _ := c.Locals("user_id").(string)
	if _, err := h.accounts.Owned(c.UserContext(), accountID, uid); err != nil {
		return accounts.MapError(err)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransaction):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
