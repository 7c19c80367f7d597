package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const cvuLength = 22

// Service exposes account operations.
type Service struct {
	repo Repository
}

// NewService builds an account service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to open an account. An empty ID is
// generated.
type CreateInput struct {
	ID     string
	UserID string
	Alias  string
}

// Create opens an account with a zero balance and a generated CVU.
func (s *Service) Create(ctx context.Context, input CreateInput) (Account, error) {
	if _, err := uuid.Parse(input.UserID); err != nil {
		return Account{}, fmt.Errorf("invalid user id: %w", err)
	}
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}
	cvu, err := newCVU()
	if err != nil {
		return Account{}, err
	}
	alias := strings.TrimSpace(input.Alias)
	if alias == "" {
		alias = "homebank." + strings.SplitN(id, "-", 2)[0]
	}

	account := Account{
		ID:        id,
		UserID:    input.UserID,
		Alias:     alias,
		CVU:       cvu,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// Get retrieves an account.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.Get(ctx, id)
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Owned returns the account if userID owns it.
func (s *Service) Owned(ctx context.Context, id, userID string) (Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if account.UserID != userID {
		return Account{}, ErrNotOwner
	}
	return account, nil
}

// ErrNotOwner indicates the caller does not own the account.
var ErrNotOwner = errors.New("not owner of account")

// SetBalance overwrites the balance with the value supplied by the client.
func (s *Service) SetBalance(ctx context.Context, id string, balance float64) (Account, error) {
	if !finite(balance) {
		return Account{}, ErrInvalidAmount
	}
	return s.repo.SetBalance(ctx, id, balance)
}

// Adjust applies a signed delta once per reference.
func (s *Service) Adjust(ctx context.Context, id string, delta float64, reference string) (Account, error) {
	if !finite(delta) {
		return Account{}, ErrInvalidAmount
	}
	if strings.TrimSpace(reference) == "" {
		return Account{}, errors.New("reference is required")
	}
	return s.repo.Adjust(ctx, id, delta, reference)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func newCVU() (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < cvuLength; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
