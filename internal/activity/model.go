package activity

import (
	"errors"
	"time"
)

const (
	// TypeTransfer marks peer transfers.
	TypeTransfer = "Transfer"
	// TypeDeposit marks card deposits.
	TypeDeposit = "Deposit"

	defaultLimit = 10
	maxLimit     = 100
)

// ErrNotFound is returned when no transaction matches.
var ErrNotFound = errors.New("transaction not found")

// Transaction is one activity record. Amount is signed.
type Transaction struct {
	ID          string
	AccountID   string
	Type        string
	Amount      float64
	Origin      string
	Destination string
	Name        string
	Dated       time.Time
}
