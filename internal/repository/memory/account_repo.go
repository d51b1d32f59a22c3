package memory

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type AccountRepo struct {
	store *Store
}

func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(account.Username, account.ID) || s.emailTaken(account.Email, account.ID) {
		return domain.ErrDuplicateAccount
	}

	s.accounts[account.ID] = stripEdges(*account)
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(func(a domain.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getBy(func(a domain.Account) bool { return strings.EqualFold(a.Username, username) })
}

func (r *AccountRepo) getBy(match func(domain.Account) bool) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if match(a) {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *AccountRepo) Find(ctx context.Context, filter domain.AccountFilter) iter.Seq2[*domain.Account, error] {
	s := r.store
	s.mu.RLock()
	accounts := s.sortedAccounts()
	s.mu.RUnlock()

	return func(yield func(*domain.Account, error) bool) {
		for _, a := range accounts {
			if !matches(a, filter) {
				continue
			}
			out := a
			if !yield(&out, nil) {
				return
			}
		}
	}
}

func matches(a domain.Account, f domain.AccountFilter) bool {
	if f.ID != nil && a.ID != *f.ID {
		return false
	}
	if f.Username != nil && !strings.EqualFold(a.Username, *f.Username) {
		return false
	}
	if f.Email != nil && !strings.EqualFold(a.Email, *f.Email) {
		return false
	}
	if f.Verified != nil && a.Verified != *f.Verified {
		return false
	}
	return true
}

func (r *AccountRepo) Page(ctx context.Context, offset, limit int) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := s.sortedAccounts()
	if offset >= len(accounts) {
		return nil, nil
	}
	accounts = accounts[offset:]
	if limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

func (r *AccountRepo) Update(ctx context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if s.usernameTaken(account.Username, account.ID) || s.emailTaken(account.Email, account.ID) {
		return domain.ErrDuplicateAccount
	}

	current.FirstName = account.FirstName
	current.LastName = account.LastName
	current.Username = account.Username
	current.Email = account.Email
	current.Verified = account.Verified
	s.accounts[account.ID] = current
	return nil
}

func (r *AccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	s.accounts[id] = a
	return nil
}

func (r *AccountRepo) RecordLogin(ctx context.Context, id uuid.UUID, remoteAddr string, at time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LastSeenAt = &at
	a.LastLoginAddr = &remoteAddr
	s.accounts[id] = a
	return nil
}

// Delete removes the account, every edge touching it on either side, and
// its tokens — the same cascade the postgres schema performs.
func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)

	for target := range s.following[id] {
		delete(s.followers[target], id)
	}
	delete(s.following, id)
	for follower := range s.followers[id] {
		delete(s.following[follower], id)
	}
	delete(s.followers, id)

	for tokenID, t := range s.tokens {
		if t.AccountID == id {
			delete(s.tokensByValue, t.Value)
			delete(s.tokens, tokenID)
		}
	}
	return true, nil
}

func (r *AccountRepo) Summaries(ctx context.Context, ids []uuid.UUID) ([]domain.AccountSummary, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var summaries []domain.AccountSummary
	for _, a := range s.sortedAccounts() {
		if _, ok := want[a.ID]; ok {
			summaries = append(summaries, a.Summary())
		}
	}
	return summaries, nil
}

func stripEdges(a domain.Account) domain.Account {
	a.Following = nil
	a.Followers = nil
	return a
}
