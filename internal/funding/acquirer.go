package funding

import (
	"context"

	"github.com/google/uuid"
)

// Acquirer approves card charges before a deposit is recorded.
type Acquirer interface {
	AuthorizeCharge(ctx context.Context, input ChargeAuthorization) (AuthorizationDecision, error)
}

// AuthorizationDecision is the acquirer's answer.
type AuthorizationDecision struct {
	Reference string
	Status    string
}

// ChargeAuthorization carries what the acquirer sees of a card deposit.
type ChargeAuthorization struct {
	CardNumber string
	Amount     float64
}

// StatusApproved is the only status that lets a deposit proceed.
const StatusApproved = "approved"

// StaticAcquirer approves every charge with a synthetic reference.
type StaticAcquirer struct{}

// AuthorizeCharge implements Acquirer.
func (StaticAcquirer) AuthorizeCharge(_ context.Context, _ ChargeAuthorization) (AuthorizationDecision, error) {
	return AuthorizationDecision{Reference: uuid.NewString(), Status: StatusApproved}, nil
}
