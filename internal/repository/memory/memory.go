// Package memory implements the repository interfaces on mutex-guarded maps.
// It backs unit tests and the no-database dev mode. Multi-record writes take
// the store lock for their whole duration and roll back applied sides on
// failure, matching the atomicity contract of the postgres backend.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	accounts  map[uuid.UUID]domain.Account
	following map[uuid.UUID]map[uuid.UUID]struct{}
	followers map[uuid.UUID]map[uuid.UUID]struct{}

	tokens        map[uuid.UUID]domain.VerificationToken
	tokensByValue map[string]uuid.UUID

	failEdgeWrite error
}

func NewStore() *Store {
	return &Store{
		accounts:      make(map[uuid.UUID]domain.Account),
		following:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
		followers:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
		tokens:        make(map[uuid.UUID]domain.VerificationToken),
		tokensByValue: make(map[string]uuid.UUID),
	}
}

func (s *Store) Accounts() *AccountRepo { return &AccountRepo{store: s} }
func (s *Store) Follows() *FollowRepo   { return &FollowRepo{store: s} }
func (s *Store) Tokens() *TokenRepo     { return &TokenRepo{store: s} }

// FailNextEdgeWrite makes the next AddEdge or RemoveEdge fail after its
// first side has been applied, forcing the rollback path.
func (s *Store) FailNextEdgeWrite(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failEdgeWrite = err
}

// usernameTaken and emailTaken implement the case-insensitive uniqueness the
// schema enforces with functional indexes. Caller holds the lock.
func (s *Store) usernameTaken(username string, except uuid.UUID) bool {
	for id, a := range s.accounts {
		if id != except && strings.EqualFold(a.Username, username) {
			return true
		}
	}
	return false
}

func (s *Store) emailTaken(email string, except uuid.UUID) bool {
	for id, a := range s.accounts {
		if id != except && strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

// sortedAccounts returns a snapshot ordered by join time. Caller holds the
// lock.
func (s *Store) sortedAccounts() []domain.Account {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].JoinedAt.Before(accounts[j].JoinedAt)
	})
	return accounts
}
