package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/orbit/internal/domain"
)

type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

func (r *TokenRepo) Create(ctx context.Context, token *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (id, account_id, value, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, token.ID, token.AccountID, token.Value, token.CreatedAt)
	if isForeignKeyViolation(err) {
		return domain.ErrAccountNotFound
	}
	return domain.NewStorageError("create token", err)
}

func (r *TokenRepo) GetByValue(ctx context.Context, value string) (*domain.VerificationToken, error) {
	query := `
		SELECT id, account_id, value, created_at, consumed_at
		FROM verification_tokens
		WHERE value = $1`

	var t domain.VerificationToken
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&t.ID, &t.AccountID, &t.Value, &t.CreatedAt, &t.ConsumedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &t, domain.NewStorageError("get token", err)
}

// Consume retires the token and verifies the account in one transaction.
// The guarded WHERE clauses make replays lose cleanly: whichever condition
// no longer holds aborts the transaction with nothing written.
func (r *TokenRepo) Consume(ctx context.Context, tokenID, accountID uuid.UUID) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE verification_tokens SET consumed_at = now() WHERE id = $1 AND consumed_at IS NULL`,
			tokenID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTokenNotFound
		}

		tag, err = tx.Exec(ctx,
			`UPDATE accounts SET verified = true WHERE id = $1 AND NOT verified`,
			accountID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAlreadyVerified
		}
		return nil
	})
	if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrAlreadyVerified) {
		return err
	}
	return domain.NewStorageError("consume token", err)
}
