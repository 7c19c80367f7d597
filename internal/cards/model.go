package cards

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no card matches.
	ErrNotFound = errors.New("card not found")
	// ErrExists is returned when the account already holds the card number.
	ErrExists = errors.New("card already registered")
)

// Card is a payment card attached to an account. The security code is checked
// on creation and never stored.
type Card struct {
	ID             string
	AccountID      string
	Number         string
	FirstLastName  string
	ExpirationDate string
	CreatedAt      time.Time
}
