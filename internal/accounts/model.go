package accounts

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("account not found")
	// ErrExists is returned when an account id is taken.
	ErrExists = errors.New("account already exists")
	// ErrInvalidAmount is returned for NaN or infinite balances and deltas.
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

// Account is a customer account holding a balance.
type Account struct {
	ID        string
	UserID    string
	Alias     string
	CVU       string
	Balance   float64
	CreatedAt time.Time
}
