package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/repository"
)

// Notifier pushes graph and verification events to connected clients. All
// methods are fire-and-forget.
type Notifier interface {
	NotifyNewFollower(accountID uuid.UUID, follower domain.AccountSummary)
	NotifyFollowerRemoved(accountID, followerID uuid.UUID)
	NotifyVerified(accountID uuid.UUID)
}

type FollowService struct {
	follows  repository.FollowRepository
	accounts repository.AccountRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewFollowService(
	follows repository.FollowRepository,
	accounts repository.AccountRepository,
	notifier Notifier,
	logger *slog.Logger,
) *FollowService {
	return &FollowService{
		follows:  follows,
		accounts: accounts,
		notifier: notifier,
		logger:   logger,
	}
}

// Follow adds accountID → targetID. Repeating an existing follow is a
// successful no-op; both sides of the edge land atomically or not at all.
func (s *FollowService) Follow(ctx context.Context, accountID, targetID uuid.UUID) error {
	if accountID == targetID {
		return domain.ErrSelfFollow
	}

	follower, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if follower == nil {
		return domain.ErrAccountNotFound
	}
	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrAccountNotFound
	}

	if err := s.follows.AddEdge(ctx, accountID, targetID); err != nil {
		return err
	}

	s.notifier.NotifyNewFollower(targetID, follower.Summary())
	return nil
}

// Unfollow removes the edge; removing an absent edge is a successful no-op.
func (s *FollowService) Unfollow(ctx context.Context, accountID, targetID uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrAccountNotFound
	}

	if err := s.follows.RemoveEdge(ctx, accountID, targetID); err != nil {
		return err
	}

	s.notifier.NotifyFollowerRemoved(targetID, accountID)
	return nil
}
