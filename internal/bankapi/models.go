package bankapi

import "time"

// TransactionTypeTransfer marks peer transfers created by CreateTransfer.
const TransactionTypeTransfer = "Transfer"

// TransactionTypeDeposit marks card deposits created by CreateDeposit.
const TransactionTypeDeposit = "Deposit"

// Account is a transient copy of a backend account.
type Account struct {
	ID      string  `json:"id"`
	UserID  string  `json:"userId,omitempty"`
	Alias   string  `json:"alias,omitempty"`
	CVU     string  `json:"cvu,omitempty"`
	Balance float64 `json:"balance"`
}

// Transaction is an activity record as persisted by the backend. Amount is
// signed: debits are negative.
type Transaction struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId,omitempty"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Name        string    `json:"name,omitempty"`
	Dated       time.Time `json:"dated"`
}

// Card is a payment card attached to an account.
type Card struct {
	ID             string `json:"id"`
	AccountID      string `json:"accountId"`
	Number         string `json:"number"`
	FirstLastName  string `json:"firstLastName"`
	ExpirationDate string `json:"expirationDate"`
}

// User is a registered customer.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// Session is returned by Login and Register.
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	AccountID string `json:"accountId,omitempty"`
}
