package repository

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type AccountRepository interface {
	// Create persists a new account. A username or email collision comes
	// back as domain.ErrDuplicateAccount with nothing written.
	Create(ctx context.Context, account *domain.Account) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Find streams accounts matching the filter ordered by join time. The
	// sequence is single-pass: it reads lazily from the backend and cannot
	// be restarted once consumed.
	Find(ctx context.Context, filter domain.AccountFilter) iter.Seq2[*domain.Account, error]

	Page(ctx context.Context, offset, limit int) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)

	// Update rewrites the mutable columns of an existing row. Uniqueness
	// collisions come back as domain.ErrDuplicateAccount.
	Update(ctx context.Context, account *domain.Account) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	RecordLogin(ctx context.Context, id uuid.UUID, remoteAddr string, at time.Time) error

	// Delete removes the account and, through referential cascade, its edges
	// and outstanding tokens. It reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	Summaries(ctx context.Context, ids []uuid.UUID) ([]domain.AccountSummary, error)
}

// FollowRepository owns the two sides of every follow edge. Both write
// methods are atomic: an observer never sees only one side applied, and a
// mid-operation failure leaves the pre-call state.
type FollowRepository interface {
	// AddEdge records follower → target on both sides. Adding an edge that
	// already exists is a no-op. Racing against deletion of either account
	// comes back as domain.ErrTargetGone.
	AddEdge(ctx context.Context, followerID, targetID uuid.UUID) error

	// RemoveEdge removes both sides; removing an absent edge is a no-op.
	RemoveEdge(ctx context.Context, followerID, targetID uuid.UUID) error

	FollowingIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
	FollowerIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *domain.VerificationToken) error

	// GetByValue returns nil, nil when no token carries the value.
	GetByValue(ctx context.Context, value string) (*domain.VerificationToken, error)

	// Consume marks the token consumed and flips the owning account to
	// verified in one atomic write. It fails with domain.ErrTokenNotFound if
	// the token was consumed meanwhile and domain.ErrAlreadyVerified if the
	// account was verified meanwhile; either way nothing is changed.
	Consume(ctx context.Context, tokenID, accountID uuid.UUID) error
}
