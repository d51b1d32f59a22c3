package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/repository"
)

// tokenBytes gives 128 bits of entropy per token value.
const tokenBytes = 16

type VerificationService struct {
	tokens   repository.TokenRepository
	accounts repository.AccountRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewVerificationService(
	tokens repository.TokenRepository,
	accounts repository.AccountRepository,
	notifier Notifier,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		tokens:   tokens,
		accounts: accounts,
		notifier: notifier,
		logger:   logger,
	}
}

// Issue creates a fresh token for the account. Outstanding tokens stay
// valid; concurrent issues are independent because every token carries its
// own random value.
func (s *VerificationService) Issue(ctx context.Context, accountID uuid.UUID) (*domain.VerificationToken, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	value, err := newTokenValue()
	if err != nil {
		return nil, fmt.Errorf("generating token value: %w", err)
	}

	token := &domain.VerificationToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Confirm advances the owning account from unverified to verified and
// retires the token, both in one atomic write. Failures by kind: an unknown
// value, a non-matching email, or a consumed token are all
// domain.ErrTokenNotFound; a verified account is domain.ErrAlreadyVerified.
// Verified is terminal — there is no transition back.
func (s *VerificationService) Confirm(ctx context.Context, tokenValue, email string) error {
	token, err := s.tokens.GetByValue(ctx, tokenValue)
	if err != nil {
		return err
	}
	if token == nil {
		return domain.ErrTokenNotFound
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return err
	}
	if account == nil || !strings.EqualFold(account.Email, email) {
		return domain.ErrTokenNotFound
	}
	if account.Verified {
		return domain.ErrAlreadyVerified
	}
	if token.Consumed() {
		return domain.ErrTokenNotFound
	}

	// The repository re-checks both conditions inside the transaction, so a
	// racing confirm loses there with nothing written.
	if err := s.tokens.Consume(ctx, token.ID, account.ID); err != nil {
		return err
	}

	s.notifier.NotifyVerified(account.ID)
	return nil
}

func newTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
