package cards

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/accounts"
)

var validate = validator.New()

// Handler exposes card endpoints nested under an account.
type Handler struct {
	service  *Service
	accounts *accounts.Service
}

// NewHandler constructs a card handler. Account ownership is checked through
// the account service.
func NewHandler(service *Service, accountSvc *accounts.Service) *Handler {
	return &Handler{service: service, accounts: accountSvc}
}

// Response is the wire view of a card.
type Response struct {
	ID             string `json:"id"`
	AccountID      string `json:"accountId"`
	Number         string `json:"number"`
	FirstLastName  string `json:"firstLastName"`
	ExpirationDate string `json:"expirationDate"`
}

func toResponse(card Card) Response {
	return Response{ID: card.ID, AccountID: card.AccountID, Number: card.Number, FirstLastName: card.FirstLastName, ExpirationDate: card.ExpirationDate}
}

type createRequest struct {
	Number         string `json:"number" validate:"required"`
	FirstLastName  string `json:"firstLastName" validate:"required"`
	ExpirationDate string `json:"expirationDate" validate:"required"`
	Cod            string `json:"cod" validate:"required"`
}

// List serves GET /accounts/:id/cards.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID := c.Params("id")
	if err := h.owns(c, accountID); err != nil {
		return err
	}
	list, err := h.service.List(c.UserContext(), accountID)
	if err != nil {
		return mapError(err)
	}
	out := make([]Response, 0, len(list))
	for _, card := range list {
		out = append(out, toResponse(card))
	}
	return c.JSON(out)
}

// Get serves GET /accounts/:id/cards/:cardId. The route is public.
func (h *Handler) Get(c *fiber.Ctx) error {
	card, err := h.service.Get(c.UserContext(), c.Params("id"), c.Params("cardId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(toResponse(card))
}

// Create serves POST /accounts/:id/cards.
func (h *Handler) Create(c *fiber.Ctx) error {
	accountID := c.Params("id")
	if err := h.owns(c, accountID); err != nil {
		return err
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	card, err := h.service.Create(c.UserContext(), CreateInput{
		AccountID:      accountID,
		Number:         req.Number,
		FirstLastName:  req.FirstLastName,
		ExpirationDate: req.ExpirationDate,
		Cod:            req.Cod,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(card))
}

// Delete serves DELETE /accounts/:id/cards/:cardId.
func (h *Handler) Delete(c *fiber.Ctx) error {
	accountID := c.Params("id")
	if err := h.owns(c, accountID); err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), accountID, c.Params("cardId")); err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
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
	case errors.Is(err, ErrExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCard):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
