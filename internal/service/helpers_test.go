package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/credentials"
	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/repository/memory"
	"golang.org/x/crypto/bcrypt"
)

// -------- test fakes --------

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	removed []uuid.UUID
	err     error
	done    chan uuid.UUID
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{done: make(chan uuid.UUID, 32)}
}

func (f *fakeIndexer) Index(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	f.indexed = append(f.indexed, account.ID)
	f.mu.Unlock()
	f.done <- account.ID
	return f.err
}

func (f *fakeIndexer) Remove(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.removed = append(f.removed, id)
	f.mu.Unlock()
	f.done <- id
	return f.err
}

// wait blocks until the indexer has been called for id or the deadline
// passes.
func (f *fakeIndexer) wait(t *testing.T, id uuid.UUID) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-f.done:
			if got == id {
				return
			}
		case <-deadline:
			t.Fatalf("indexer was not called for %s", id)
		}
	}
}

type fakeNotifier struct {
	mu        sync.Mutex
	followers []domain.AccountSummary
	followerTargets []uuid.UUID
	removed   [][2]uuid.UUID
	verified  []uuid.UUID
}

func (f *fakeNotifier) NotifyNewFollower(accountID uuid.UUID, follower domain.AccountSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followerTargets = append(f.followerTargets, accountID)
	f.followers = append(f.followers, follower)
}

func (f *fakeNotifier) NotifyFollowerRemoved(accountID, followerID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, [2]uuid.UUID{accountID, followerID})
}

func (f *fakeNotifier) NotifyVerified(accountID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, accountID)
}

// -------- fixture --------

type fixture struct {
	store        *memory.Store
	accounts     *AccountService
	follows      *FollowService
	verification *VerificationService
	indexer      *fakeIndexer
	notifier     *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	indexer := newFakeIndexer()
	notifier := &fakeNotifier{}
	creds := credentials.New(bcrypt.MinCost, 2)
	logger := slog.New(slog.DiscardHandler)

	return &fixture{
		store:        store,
		accounts:     NewAccountService(store.Accounts(), store.Follows(), creds, indexer, "test-secret", logger),
		follows:      NewFollowService(store.Follows(), store.Accounts(), notifier, logger),
		verification: NewVerificationService(store.Tokens(), store.Accounts(), notifier, logger),
		indexer:      indexer,
		notifier:     notifier,
	}
}

func (f *fixture) mustCreate(t *testing.T, username, email string) *domain.Account {
	t.Helper()
	account, err := f.accounts.Create(context.Background(), CreateAccountInput{
		FirstName: "Test",
		LastName:  "Account",
		Username:  username,
		Email:     email,
		Password:  "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("creating %s: %v", username, err)
	}
	return account
}

// seedAccounts inserts n accounts directly with strictly increasing join
// times, bypassing the hash step.
func (f *fixture) seedAccounts(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		a := &domain.Account{
			ID:           uuid.New(),
			Username:     fmt.Sprintf("member%02d", i),
			Email:        fmt.Sprintf("member%02d@example.com", i),
			PasswordHash: "x",
			JoinedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.store.Accounts().Create(context.Background(), a); err != nil {
			t.Fatalf("seeding account %d: %v", i, err)
		}
		ids[i] = a.ID
	}
	return ids
}
