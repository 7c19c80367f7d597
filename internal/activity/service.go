package activity

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransaction is returned for malformed transfer or deposit data.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Service records and lists account activity. It never changes balances.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds an activity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// TransferInput is a transfer as submitted by the client. Amount is signed.
type TransferInput struct {
	Amount      float64
	Origin      string
	Destination string
	Name        string
	Dated       time.Time
}

// Transfer records a transfer and returns it as stored. The stored amount is
// what the client must reconcile with.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (Transaction, error) {
	if strings.TrimSpace(input.Origin) == "" || strings.TrimSpace(input.Destination) == "" {
		return Transaction{}, errors.Join(ErrInvalidTransaction, errors.New("origin and destination are required"))
	}
	if input.Origin == input.Destination {
		return Transaction{}, errors.Join(ErrInvalidTransaction, errors.New("origin and destination must differ"))
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return Transaction{}, errors.Join(ErrInvalidTransaction, errors.New("amount must be finite"))
	}
	dated := input.Dated
	if dated.IsZero() {
		dated = s.now()
	}
	tx := Transaction{
		ID:          uuid.New().String(),
		AccountID:   input.Origin,
		Type:        TypeTransfer,
		Amount:      input.Amount,
		Origin:      input.Origin,
		Destination: input.Destination,
		Name:        input.Name,
		Dated:       dated.UTC(),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Deposit records a card deposit into accountID.
func (s *Service) Deposit(ctx context.Context, accountID, cardNumber string, amount float64) (Transaction, error) {
	if amount <= 0 || math.IsInf(amount, 0) {
		return Transaction{}, errors.Join(ErrInvalidTransaction, errors.New("amount must be positive"))
	}
	if strings.TrimSpace(cardNumber) == "" {
		return Transaction{}, errors.Join(ErrInvalidTransaction, errors.New("card number is required"))
	}
	tx := Transaction{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Type:        TypeDeposit,
		Amount:      amount,
		Origin:      cardNumber,
		Destination: accountID,
		Dated:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Last returns recent activity. A non-positive limit means the default page.
func (s *Service) Last(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.Last(ctx, accountID, limit)
}

// Get fetches a transaction by id.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}
