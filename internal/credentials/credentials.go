// Package credentials owns password hashing and verification. Hashing is
// CPU-bound, so every call goes through a bounded semaphore: a burst of
// registrations can never occupy more than maxWorkers cores at once, and a
// cancelled caller gives up its slot instead of queueing forever.
package credentials

import (
	"context"
	"runtime"

	"github.com/vedran77/orbit/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

type Manager struct {
	cost int
	sem  *semaphore.Weighted
}

// New creates a Manager with the given bcrypt cost. A cost outside bcrypt's
// valid range falls back to bcrypt.DefaultCost (10, matching what the stored
// hashes were originally produced with). workers <= 0 means one slot per CPU.
func New(cost, workers int) *Manager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Manager{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

// Hash returns the bcrypt hash of plaintext. Salt and cost are encoded in
// the output, so Verify needs nothing besides the hash itself.
func (m *Manager) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer m.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), m.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A mismatch is a false
// return, never an error.
func (m *Manager) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer m.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil, nil
}

// Change verifies attempted against currentHash and, if it matches, returns
// a fresh hash of newPlaintext. It returns domain.ErrIncorrectPassword on a
// mismatch and never touches storage; persisting the result is the caller's
// job.
func (m *Manager) Change(ctx context.Context, currentHash, attempted, newPlaintext string) (string, error) {
	ok, err := m.Verify(ctx, attempted, currentHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrIncorrectPassword
	}
	return m.Hash(ctx, newPlaintext)
}
