package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/orbit/internal/domain"
)

// FollowRepo stores each follow edge twice: once in account_following (who
// the follower follows) and once in account_followers (who follows the
// target). Both sides are written in one transaction so the symmetry
// invariant holds at every observable moment.
type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) AddEdge(ctx context.Context, followerID, targetID uuid.UUID) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO account_following (account_id, target_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			followerID, targetID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO account_followers (account_id, follower_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			targetID, followerID,
		)
		return err
	})
	if isForeignKeyViolation(err) {
		// One of the accounts was deleted between the service's existence
		// check and the write; the constraint serializes that race.
		return domain.ErrTargetGone
	}
	return domain.NewStorageError("add follow edge", err)
}

func (r *FollowRepo) RemoveEdge(ctx context.Context, followerID, targetID uuid.UUID) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM account_following WHERE account_id = $1 AND target_id = $2`,
			followerID, targetID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM account_followers WHERE account_id = $1 AND follower_id = $2`,
			targetID, followerID,
		)
		return err
	})
	return domain.NewStorageError("remove follow edge", err)
}

func (r *FollowRepo) FollowingIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	return r.scanIDs(ctx,
		`SELECT target_id FROM account_following WHERE account_id = $1`, accountID)
}

func (r *FollowRepo) FollowerIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	return r.scanIDs(ctx,
		`SELECT follower_id FROM account_followers WHERE account_id = $1`, accountID)
}

func (r *FollowRepo) scanIDs(ctx context.Context, query string, accountID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, domain.NewStorageError("list follow edges", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError("list follow edges", err)
		}
		ids = append(ids, id)
	}
	return ids, domain.NewStorageError("list follow edges", rows.Err())
}
