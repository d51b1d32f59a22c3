package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/domain"
)

type FollowRepo struct {
	store *Store
}

// AddEdge applies both sides under the store lock. When a failure is
// injected between the sides, the applied first side is compensated before
// returning, so no half-written edge is ever observable.
func (r *FollowRepo) AddEdge(ctx context.Context, followerID, targetID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[followerID]; !ok {
		return domain.ErrTargetGone
	}
	if _, ok := s.accounts[targetID]; !ok {
		return domain.ErrTargetGone
	}

	added := addMember(s.following, followerID, targetID)

	if err := s.takeEdgeFailure(); err != nil {
		if added {
			delete(s.following[followerID], targetID)
		}
		return err
	}

	addMember(s.followers, targetID, followerID)
	return nil
}

func (r *FollowRepo) RemoveEdge(ctx context.Context, followerID, targetID uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := removeMember(s.following, followerID, targetID)

	if err := s.takeEdgeFailure(); err != nil {
		if removed {
			addMember(s.following, followerID, targetID)
		}
		return err
	}

	removeMember(s.followers, targetID, followerID)
	return nil
}

func (r *FollowRepo) FollowingIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memberIDs(s.following, accountID), nil
}

func (r *FollowRepo) FollowerIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memberIDs(s.followers, accountID), nil
}

// takeEdgeFailure consumes a pending injected failure. Caller holds the
// lock.
func (s *Store) takeEdgeFailure() error {
	err := s.failEdgeWrite
	s.failEdgeWrite = nil
	return err
}

func addMember(sets map[uuid.UUID]map[uuid.UUID]struct{}, key, member uuid.UUID) bool {
	set, ok := sets[key]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		sets[key] = set
	}
	if _, exists := set[member]; exists {
		return false
	}
	set[member] = struct{}{}
	return true
}

func removeMember(sets map[uuid.UUID]map[uuid.UUID]struct{}, key, member uuid.UUID) bool {
	set, ok := sets[key]
	if !ok {
		return false
	}
	if _, exists := set[member]; !exists {
		return false
	}
	delete(set, member)
	return true
}

func memberIDs(sets map[uuid.UUID]map[uuid.UUID]struct{}, key uuid.UUID) []uuid.UUID {
	set := sets[key]
	if len(set) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
