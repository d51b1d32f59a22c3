package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type TokenRepo struct {
	store *Store
}

func (r *TokenRepo) Create(ctx context.Context, token *domain.VerificationToken) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[token.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	s.tokens[token.ID] = *token
	s.tokensByValue[token.Value] = token.ID
	return nil
}

func (r *TokenRepo) GetByValue(ctx context.Context, value string) (*domain.VerificationToken, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokensByValue[value]
	if !ok {
		return nil, nil
	}
	t := s.tokens[id]
	return &t, nil
}

func (r *TokenRepo) Consume(ctx context.Context, tokenID, accountID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[tokenID]
	if !ok || t.Consumed() {
		return domain.ErrTokenNotFound
	}
	a, ok := s.accounts[accountID]
	if !ok || a.Verified {
		return domain.ErrAlreadyVerified
	}

	now := time.Now().UTC()
	t.ConsumedAt = &now
	s.tokens[tokenID] = t

	a.Verified = true
	s.accounts[accountID] = a
	return nil
}

// MarkConsumed flips a token's consumed state directly, bypassing the
// account update. Test seam for exercising the consumed-token path in
// isolation.
func (r *TokenRepo) MarkConsumed(tokenID uuid.UUID) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tokens[tokenID]; ok {
		now := time.Now().UTC()
		t.ConsumedAt = &now
		s.tokens[tokenID] = t
	}
}
