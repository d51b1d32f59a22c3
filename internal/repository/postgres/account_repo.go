package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/orbit/internal/domain"
)

const accountColumns = "id, first_name, last_name, username, email, password_hash, verified, joined_at, last_seen_at, last_login_addr"

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, first_name, last_name, username, email, password_hash, verified, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		account.ID, account.FirstName, account.LastName, account.Username,
		account.Email, account.PasswordHash, account.Verified, account.JoinedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccount
	}
	return domain.NewStorageError("create account", err)
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.scanAccount(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.scanAccount(ctx, "SELECT "+accountColumns+" FROM accounts WHERE lower(email) = lower($1)", email)
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.scanAccount(ctx, "SELECT "+accountColumns+" FROM accounts WHERE lower(username) = lower($1)", username)
}

func (r *AccountRepo) scanAccount(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var a domain.Account
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email,
		&a.PasswordHash, &a.Verified, &a.JoinedAt, &a.LastSeenAt, &a.LastLoginAddr,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &a, domain.NewStorageError("get account", err)
}

// Find streams matching rows ordered by join time. The returned sequence
// holds the underlying rows open until it is fully consumed or abandoned.
func (r *AccountRepo) Find(ctx context.Context, filter domain.AccountFilter) iter.Seq2[*domain.Account, error] {
	query := "SELECT " + accountColumns + " FROM accounts"
	var args []any

	next := func(cond string, arg any) {
		args = append(args, arg)
		clause := " WHERE "
		if len(args) > 1 {
			clause = " AND "
		}
		query += clause + fmt.Sprintf(cond, len(args))
	}

	if filter.ID != nil {
		next("id = $%d", *filter.ID)
	}
	if filter.Username != nil {
		next("lower(username) = lower($%d)", *filter.Username)
	}
	if filter.Email != nil {
		next("lower(email) = lower($%d)", *filter.Email)
	}
	if filter.Verified != nil {
		next("verified = $%d", *filter.Verified)
	}
	query += " ORDER BY joined_at ASC"

	return func(yield func(*domain.Account, error) bool) {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			yield(nil, domain.NewStorageError("find accounts", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var a domain.Account
			if err := rows.Scan(
				&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email,
				&a.PasswordHash, &a.Verified, &a.JoinedAt, &a.LastSeenAt, &a.LastLoginAddr,
			); err != nil {
				yield(nil, domain.NewStorageError("find accounts", err))
				return
			}
			if !yield(&a, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, domain.NewStorageError("find accounts", err))
		}
	}
}

func (r *AccountRepo) Page(ctx context.Context, offset, limit int) ([]domain.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts ORDER BY joined_at ASC OFFSET $1 LIMIT $2"

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, domain.NewStorageError("page accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email,
			&a.PasswordHash, &a.Verified, &a.JoinedAt, &a.LastSeenAt, &a.LastLoginAddr,
		); err != nil {
			return nil, domain.NewStorageError("page accounts", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, domain.NewStorageError("page accounts", rows.Err())
}

func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM accounts").Scan(&count)
	return count, domain.NewStorageError("count accounts", err)
}

func (r *AccountRepo) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $2, last_name = $3, username = $4, email = $5, verified = $6
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		account.ID, account.FirstName, account.LastName,
		account.Username, account.Email, account.Verified,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateAccount
	}
	if err != nil {
		return domain.NewStorageError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE accounts SET password_hash = $2 WHERE id = $1", id, hash)
	if err != nil {
		return domain.NewStorageError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepo) RecordLogin(ctx context.Context, id uuid.UUID, remoteAddr string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE accounts SET last_seen_at = $2, last_login_addr = $3 WHERE id = $1",
		id, at, remoteAddr,
	)
	return domain.NewStorageError("record login", err)
}

// Delete removes the account row; edges and tokens go with it via
// ON DELETE CASCADE, so no dangling references survive.
func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return false, domain.NewStorageError("delete account", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AccountRepo) Summaries(ctx context.Context, ids []uuid.UUID) ([]domain.AccountSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, username, first_name, last_name, verified
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY joined_at ASC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, domain.NewStorageError("account summaries", err)
	}
	defer rows.Close()

	var summaries []domain.AccountSummary
	for rows.Next() {
		var s domain.AccountSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.Verified); err != nil {
			return nil, domain.NewStorageError("account summaries", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, domain.NewStorageError("account summaries", rows.Err())
}
