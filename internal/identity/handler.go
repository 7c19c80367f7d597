package identity

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handler exposes user profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// ToResponse hides the password hash.
func ToResponse(user User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName, Phone: user.Phone}
}

type patchRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Phone     *string `json:"phone" validate:"omitempty,min=6"`
}

// GetByEmail serves GET /users/email/:email. The parameter may also be an id.
func (h *Handler) GetByEmail(c *fiber.Ctx) error {
	user, err := h.service.Lookup(c.UserContext(), c.Params("email"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(ToResponse(user))
}

// Update serves PATCH /users/id/:id. Users may only update themselves.
func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if uid, _ := c.Locals("user_id").(string); uid != id {
		return fiber.NewError(http.StatusForbidden, "cannot update another user")
	}
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Update(c.UserContext(), id, Patch{FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(ToResponse(user))
}

func mapError(err error) error {
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
