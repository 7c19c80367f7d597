package bankapi

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
	return v
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func validatePayload(name string, payload any) error {
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
	}
	return nil
}

// AccountPatch is the partial account update sent by UpdateAccount.
type AccountPatch struct {
	Balance *float64 `json:"balance,omitempty" validate:"required,finite"`
}

// BalancePatch builds a patch that sets the balance.
func BalancePatch(balance float64) AccountPatch {
	return AccountPatch{Balance: &balance}
}

// BalanceAdjustment asks the backend to apply a signed delta atomically. The
// reference makes repeated submissions of the same adjustment a no-op.
type BalanceAdjustment struct {
	Delta     float64 `json:"delta" validate:"finite"`
	Reference string  `json:"reference" validate:"required"`
}

// TransferRequest is the payload for POST /transactions/transfer.
type TransferRequest struct {
	Type        string    `json:"type" validate:"required"`
	Amount      float64   `json:"amount" validate:"finite"`
	Origin      string    `json:"origin" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Name        string    `json:"name,omitempty"`
	Dated       time.Time `json:"dated"`
}

// DepositRequest records a card funded deposit.
type DepositRequest struct {
	AccountID  string  `json:"accountId" validate:"required"`
	CardNumber string  `json:"cardNumber" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0,finite"`
}

// NewCard is the payload for CreateCard.
type NewCard struct {
	Number         string `json:"number" validate:"required,numeric,min=12,max=19"`
	FirstLastName  string `json:"firstLastName" validate:"required"`
	ExpirationDate string `json:"expirationDate" validate:"required"`
	Cod            string `json:"cod" validate:"required,numeric,min=3,max=4"`
}

// UserPatch updates profile fields; nil fields are left untouched.
type UserPatch struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=6"`
}

func (p UserPatch) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil
}

// NewUser is the registration payload.
type NewUser struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
