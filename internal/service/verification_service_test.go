package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/orbit/internal/domain"
)

func TestIssue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")

	token, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, token.AccountID)
	require.Len(t, token.Value, 32, "hex-encoded 128-bit value")
	require.Nil(t, token.ConsumedAt)

	// Every issue mints an independent value.
	second, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)
	require.NotEqual(t, token.Value, second.Value)
}

func TestIssue_UnknownAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.verification.Issue(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestConfirm(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")
	token, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.verification.Confirm(ctx, token.Value, "alice@x.com"))

	got, err := f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, got.Verified)

	stored, err := f.store.Tokens().GetByValue(ctx, token.Value)
	require.NoError(t, err)
	require.True(t, stored.Consumed(), "token must be retired with the state change")

	require.Equal(t, []uuid.UUID{alice.ID}, f.notifier.verified)
}

func TestConfirm_EmailMismatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")
	token, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)

	err = f.verification.Confirm(ctx, token.Value, "mallory@x.com")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	// Email matching is case-insensitive, like the stored address.
	require.NoError(t, f.verification.Confirm(ctx, token.Value, "ALICE@x.com"))
}

func TestConfirm_UnknownValue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.mustCreate(t, "alice", "alice@x.com")

	err := f.verification.Confirm(context.Background(), "ffffffffffffffffffffffffffffffff", "alice@x.com")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestConfirm_Replay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")
	token, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.verification.Confirm(ctx, token.Value, "alice@x.com"))

	// A verified account answers every further confirm the same way, no
	// matter how often the token is replayed.
	err = f.verification.Confirm(ctx, token.Value, "alice@x.com")
	require.ErrorIs(t, err, domain.ErrAlreadyVerified)

	err = f.verification.Confirm(ctx, token.Value, "alice@x.com")
	require.ErrorIs(t, err, domain.ErrAlreadyVerified)

	require.Len(t, f.notifier.verified, 1, "only the first confirm notifies")
}

func TestConfirm_ConsumedToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")
	token, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)

	// Retire the token without verifying the account, so the single-use
	// check is what rejects the confirm.
	f.store.Tokens().MarkConsumed(token.ID)

	err = f.verification.Confirm(ctx, token.Value, "alice@x.com")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	got, err := f.store.Accounts().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, got.Verified, "a consumed token must not verify the account")
}

func TestConfirm_MultipleOutstandingTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustCreate(t, "alice", "alice@x.com")
	first, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)
	second, err := f.verification.Issue(ctx, alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.verification.Confirm(ctx, second.Value, "alice@x.com"))

	// The sibling token outlives the confirm but can no longer do anything.
	err = f.verification.Confirm(ctx, first.Value, "alice@x.com")
	require.ErrorIs(t, err, domain.ErrAlreadyVerified)
}
