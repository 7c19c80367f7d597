package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCard is returned for malformed card data.
var ErrInvalidCard = errors.New("invalid card")

// Service manages the cards of an account.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a card service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput is a card as entered by the customer.
type CreateInput struct {
	AccountID      string
	Number         string
	FirstLastName  string
	ExpirationDate string
	Cod            string
}

// Create validates and stores a card. Expired cards are refused.
func (s *Service) Create(ctx context.Context, input CreateInput) (Card, error) {
	number := strings.ReplaceAll(input.Number, " ", "")
	if len(number) < 12 || len(number) > 19 || !digits(number) {
		return Card{}, fmt.Errorf("%w: number must be 12 to 19 digits", ErrInvalidCard)
	}
	if len(input.Cod) < 3 || len(input.Cod) > 4 || !digits(input.Cod) {
		return Card{}, fmt.Errorf("%w: security code must be 3 or 4 digits", ErrInvalidCard)
	}
	if strings.TrimSpace(input.FirstLastName) == "" {
		return Card{}, fmt.Errorf("%w: holder name is required", ErrInvalidCard)
	}
	expires, err := time.Parse("01/06", input.ExpirationDate)
	if err != nil {
		return Card{}, fmt.Errorf("%w: expiration must be MM/YY", ErrInvalidCard)
	}
	if !expires.AddDate(0, 1, 0).After(s.now()) {
		return Card{}, fmt.Errorf("%w: card expired", ErrInvalidCard)
	}

	card := Card{
		ID:             uuid.New().String(),
		AccountID:      input.AccountID,
		Number:         number,
		FirstLastName:  strings.TrimSpace(input.FirstLastName),
		ExpirationDate: input.ExpirationDate,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return Card{}, err
	}
	return card, nil
}

// List returns the cards of an account.
func (s *Service) List(ctx context.Context, accountID string) ([]Card, error) {
	return s.repo.List(ctx, accountID)
}

// Get fetches a card.
func (s *Service) Get(ctx context.Context, accountID, id string) (Card, error) {
	return s.repo.Get(ctx, accountID, id)
}

// Delete removes a card.
func (s *Service) Delete(ctx context.Context, accountID, id string) error {
	return s.repo.Delete(ctx, accountID, id)
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
