package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/congo-pay/homebank/internal/accounts"
	"github.com/congo-pay/homebank/internal/identity"
	"github.com/congo-pay/homebank/internal/logging"
)

// Service logs users in and registers them with a first account.
type Service struct {
	ids      *identity.Service
	accounts *accounts.Service
	tokens   *Tokens
	logger   *slog.Logger
}

// NewService wires the auth service.
func NewService(ids *identity.Service, accountSvc *accounts.Service, tokens *Tokens, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{ids: ids, accounts: accountSvc, tokens: tokens, logger: logger}
}

// Session is what a successful login or registration returns.
type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	AccountID string `json:"accountId,omitempty"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Register creates the user and its primary account. The primary account
// shares the user's id.
func (s *Service) Register(ctx context.Context, input identity.RegisterInput) (Session, error) {
	user, err := s.ids.Register(ctx, input)
	if err != nil {
		return Session{}, err
	}
	account, err := s.accounts.Create(ctx, accounts.CreateInput{ID: user.ID, UserID: user.ID})
	if err != nil {
		return Session{}, err
	}
	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("account_id", account.ID),
	)
	return s.session(user.ID, account.ID)
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds identity.Credentials) (Session, error) {
	user, err := s.ids.Authenticate(ctx, creds)
	if err != nil {
		return Session{}, err
	}
	var accountID string
	if account, err := s.accounts.Get(ctx, user.ID); err == nil {
		accountID = account.ID
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return Session{}, err
	}
	return s.session(user.ID, accountID)
}

func (s *Service) session(userID, accountID string) (Session, error) {
	token, exp, err := s.tokens.Issue(userID, accountID)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		UserID:    userID,
		AccountID: accountID,
		ExpiresIn: int64(exp.Sub(s.tokens.now()).Seconds()),
	}, nil
}
