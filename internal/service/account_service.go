package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vedran77/orbit/internal/credentials"
	"github.com/vedran77/orbit/internal/domain"
	"github.com/vedran77/orbit/internal/repository"
)

// DefaultPageSize matches the listing page size the web layer has always
// used.
const DefaultPageSize = 15

const indexTimeout = 5 * time.Second

// Indexer receives account documents for the full-text search index. It is
// a best-effort collaborator: indexing failures never fail the triggering
// operation.
type Indexer interface {
	Index(ctx context.Context, account *domain.Account) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type AccountService struct {
	accounts  repository.AccountRepository
	follows   repository.FollowRepository
	creds     *credentials.Manager
	index     Indexer
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	follows repository.FollowRepository,
	creds *credentials.Manager,
	index Indexer,
	jwtSecret string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		follows:   follows,
		creds:     creds,
		index:     index,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

type CreateAccountInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Account     *domain.Account `json:"account"`
	AccessToken string          `json:"access_token"`
}

// Create hashes the password, persists the account, and hands it to the
// search indexer without waiting on the result. Either unique-field
// collision comes back as the single domain.ErrDuplicateAccount.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	hash, err := s.creds.Hash(ctx, input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		JoinedAt:     time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.indexAsync(account)

	account.Following = []domain.AccountSummary{}
	account.Followers = []domain.AccountSummary{}
	return account, nil
}

// indexAsync forwards the account to the search index in the background.
// The create call has already committed; a failed index write is logged and
// dropped.
func (s *AccountService) indexAsync(account *domain.Account) {
	a := *account
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := s.index.Index(ctx, &a); err != nil {
			s.logger.Warn("search indexing failed", "account_id", a.ID, "error", err)
		}
	}()
}

// Login verifies credentials, records the login origin, and issues an
// access token. Unknown email and wrong password are indistinguishable.
func (s *AccountService) Login(ctx context.Context, input LoginInput, remoteAddr string) (*LoginOutput, error) {
	account, err := s.accounts.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrIncorrectPassword
	}

	ok, err := s.creds.Verify(ctx, input.Password, account.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIncorrectPassword
	}

	now := time.Now().UTC()
	if err := s.accounts.RecordLogin(ctx, account.ID, remoteAddr, now); err != nil {
		s.logger.Warn("recording login failed", "account_id", account.ID, "error", err)
	} else {
		account.LastSeenAt = &now
		account.LastLoginAddr = &remoteAddr
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	if err := s.resolveEdges(ctx, account); err != nil {
		return nil, err
	}
	return &LoginOutput{Account: account, AccessToken: token}, nil
}

func (s *AccountService) generateToken(accountID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID.String(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ChangePassword re-hashes with the new password only when the attempted
// current password verifies; otherwise the stored hash is left untouched.
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, attempted, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrAccountNotFound
	}

	newHash, err := s.creds.Change(ctx, account.PasswordHash, attempted, newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, id, newHash)
}

// FindOne returns the first account matching the filter with followers and
// following resolved to summaries.
func (s *AccountService) FindOne(ctx context.Context, filter domain.AccountFilter) (*domain.Account, error) {
	for account, err := range s.accounts.Find(ctx, filter) {
		if err != nil {
			return nil, err
		}
		if err := s.resolveEdges(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// FindMany streams matching accounts with relationships resolved. The
// sequence is single-pass; iterating a second time yields nothing.
func (s *AccountService) FindMany(ctx context.Context, filter domain.AccountFilter) iter.Seq2[*domain.Account, error] {
	seq := s.accounts.Find(ctx, filter)
	consumed := false

	return func(yield func(*domain.Account, error) bool) {
		if consumed {
			return
		}
		consumed = true

		for account, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := s.resolveEdges(ctx, account); err != nil {
				yield(nil, err)
				return
			}
			if !yield(account, nil) {
				return
			}
		}
	}
}

// Page returns one page ordered by join time ascending. page is clamped to
// at least 1; size falls back to DefaultPageSize.
func (s *AccountService) Page(ctx context.Context, page, size int) (*domain.AccountPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	items, err := s.accounts.Page(ctx, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if err := s.resolveEdges(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []domain.Account{}
	}

	return &domain.AccountPage{
		Items:      items,
		Page:       page,
		PerPage:    size,
		TotalCount: total,
		Pages:      (total + size - 1) / size,
	}, nil
}

// Update applies a partial patch. Uniqueness still holds (the repository
// enforces it) and a patch can never revoke verified status.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, patch domain.AccountPatch) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	if patch.Verified != nil && !*patch.Verified && account.Verified {
		return nil, domain.ErrVerifiedDowngrade
	}

	if patch.FirstName != nil {
		account.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		account.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Username != nil {
		account.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		account.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Verified != nil && *patch.Verified {
		account.Verified = true
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	s.indexAsync(account)

	if err := s.resolveEdges(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes the account together with its edges and tokens, then drops
// it from the search index.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrAccountNotFound
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := s.index.Remove(ctx, id); err != nil {
			s.logger.Warn("search de-indexing failed", "account_id", id, "error", err)
		}
	}()
	return nil
}

// Summaries resolves ids (for instance search hits) to account summaries;
// ids without a live account are skipped.
func (s *AccountService) Summaries(ctx context.Context, ids []uuid.UUID) ([]domain.AccountSummary, error) {
	summaries, err := s.accounts.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []domain.AccountSummary{}
	}
	return summaries, nil
}

// resolveEdges expands the id sets into account summaries.
func (s *AccountService) resolveEdges(ctx context.Context, account *domain.Account) error {
	followingIDs, err := s.follows.FollowingIDs(ctx, account.ID)
	if err != nil {
		return err
	}
	followerIDs, err := s.follows.FollowerIDs(ctx, account.ID)
	if err != nil {
		return err
	}

	following, err := s.accounts.Summaries(ctx, followingIDs)
	if err != nil {
		return err
	}
	followers, err := s.accounts.Summaries(ctx, followerIDs)
	if err != nil {
		return err
	}

	if following == nil {
		following = []domain.AccountSummary{}
	}
	if followers == nil {
		followers = []domain.AccountSummary{}
	}
	account.Following = following
	account.Followers = followers
	return nil
}
