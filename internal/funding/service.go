// Package funding records deposits paid with a card.
package funding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/congo-pay/homebank/internal/bankapi"
	"github.com/congo-pay/homebank/internal/logging"
)

var (
	// ErrInvalidCard indicates a malformed card number.
	ErrInvalidCard = errors.New("invalid card number")
	// ErrInvalidAmount indicates a non-positive deposit.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrDeclined indicates the acquirer refused the charge.
	ErrDeclined = errors.New("card charge declined")
)

// Deposits records card deposits with the backend.
type Deposits interface {
	CreateDeposit(ctx context.Context, accountID string, req bankapi.DepositRequest, token string) (bankapi.Transaction, error)
}

// Service coordinates card deposits.
type Service struct {
	deposits Deposits
	acquirer Acquirer
	logger   *slog.Logger
}

// NewService constructs a funding service. A nil acquirer approves everything.
func NewService(deposits Deposits, acquirer Acquirer, logger *slog.Logger) *Service {
	if acquirer == nil {
		acquirer = StaticAcquirer{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{deposits: deposits, acquirer: acquirer, logger: logger}
}

// CardDepositInput captures a deposit from a card into an account.
type CardDepositInput struct {
	AccountID  string
	CardNumber string
	Amount     float64
	Token      string
}

// CardDepositResult is the recorded activity plus the acquirer reference.
type CardDepositResult struct {
	Transaction       bankapi.Transaction
	AcquirerReference string
}

// CardDeposit validates and authorizes the charge, then records it as account
// activity. The account balance is not changed here.
func (s *Service) CardDeposit(ctx context.Context, input CardDepositInput) (CardDepositResult, error) {
	number, err := normalizeCardNumber(input.CardNumber)
	if err != nil {
		return CardDepositResult{}, err
	}
	if input.Amount <= 0 {
		return CardDepositResult{}, ErrInvalidAmount
	}

	decision, err := s.acquirer.AuthorizeCharge(ctx, ChargeAuthorization{CardNumber: number, Amount: input.Amount})
	if err != nil {
		return CardDepositResult{}, err
	}
	if decision.Status != StatusApproved {
		return CardDepositResult{}, fmt.Errorf("%w: %s", ErrDeclined, decision.Status)
	}

	tx, err := s.deposits.CreateDeposit(ctx, input.AccountID, bankapi.DepositRequest{
		AccountID:  input.AccountID,
		CardNumber: number,
		Amount:     input.Amount,
	}, input.Token)
	if err != nil {
		s.logger.WarnContext(ctx, "card deposit not recorded",
			slog.String("account_id", input.AccountID),
			slog.String("acquirer_reference", decision.Reference),
			slog.Any("error", err),
		)
		return CardDepositResult{}, err
	}

	return CardDepositResult{Transaction: tx, AcquirerReference: decision.Reference}, nil
}

func normalizeCardNumber(card string) (string, error) {
	digits := strings.ReplaceAll(card, " ", "")
	if len(digits) < 12 || len(digits) > 19 {
		return "", fmt.Errorf("%w: must be between 12 and 19 digits", ErrInvalidCard)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: must be numeric", ErrInvalidCard)
		}
	}
	return digits, nil
}
