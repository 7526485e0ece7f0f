package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/idx"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func newPendingUser(email, code string, now time.Time) domain.User {
	return domain.User{
		ID:                   idx.New().String(),
		Email:                email,
		PasswordHash:         "hash",
		ActivationCode:       ptr(code),
		ActivationCodeSentAt: ptr(now),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := newPendingUser("a@x.com", "123456", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)
	require.False(t, byID.IsActive)
	require.False(t, byID.IsSuperuser)
	require.NotNil(t, byID.ActivationCode)
	require.Equal(t, "123456", *byID.ActivationCode)
	require.NotNil(t, byID.ActivationCodeSentAt)
	require.WithinDuration(t, now, *byID.ActivationCodeSentAt, time.Millisecond)
	require.Nil(t, byID.ResetPasswordCode)
	require.Nil(t, byID.LastConnectedAt)
	require.WithinDuration(t, now, byID.CreatedAt, time.Millisecond)

	byEmail, err := s.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByEmail(ctx, "b@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	first := newPendingUser("a@x.com", "111111", now)
	require.NoError(t, s.Users().CreateUser(ctx, first))

	second := newPendingUser("a@x.com", "222222", now)
	require.ErrorIs(t, s.Users().CreateUser(ctx, second), store.ErrAlreadyExists)

	got, err := s.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "111111", *got.ActivationCode)
}

func TestActivateUserCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	u := newPendingUser("a@x.com", "123456", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "000000", now), store.ErrNotFound)
	require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "", now), store.ErrNotFound)

	require.NoError(t, s.Users().ActivateUser(ctx, u.ID, "123456", now))
	require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "123456", now), store.ErrNotFound)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
	require.Nil(t, got.ActivationCode)
	require.Nil(t, got.ActivationCodeSentAt)

	// Active accounts keep no activation code.
	require.ErrorIs(t, s.Users().SetActivationCode(ctx, u.ID, "999999", now), store.ErrNotFound)
}

func TestSetActivationCode(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	u := newPendingUser("a@x.com", "123456", now.Add(-time.Hour))
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().SetActivationCode(ctx, u.ID, "654321", now))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "654321", *got.ActivationCode)
	require.WithinDuration(t, now, *got.ActivationCodeSentAt, time.Millisecond)

	require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "123456", now), store.ErrNotFound)
	require.NoError(t, s.Users().ActivateUser(ctx, u.ID, "654321", now))
}

func TestResetPasswordCodeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	u := newPendingUser("a@x.com", "123456", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	_, err := s.Users().GetUserByResetCode(ctx, "777777")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().SetResetPasswordCode(ctx, u.ID, "777777", now))

	got, err := s.Users().GetUserByResetCode(ctx, "777777")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// Wrong code does not consume anything.
	require.ErrorIs(t, s.Users().ConsumeResetPasswordCode(ctx, u.ID, "888888", "new", now), store.ErrNotFound)

	require.NoError(t, s.Users().ConsumeResetPasswordCode(ctx, u.ID, "777777", "new", now))
	require.ErrorIs(t, s.Users().ConsumeResetPasswordCode(ctx, u.ID, "777777", "newer", now), store.ErrNotFound)

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new", got.PasswordHash)
	require.Nil(t, got.ResetPasswordCode)
	require.Nil(t, got.ResetPasswordCodeSentAt)

	_, err = s.Users().GetUserByResetCode(ctx, "777777")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().SetResetPasswordCode(ctx, "missing", "1", now), store.ErrNotFound)
}

func TestGetUserByResetCodePrefersLatest(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	older := newPendingUser("a@x.com", "1", now)
	newer := newPendingUser("b@x.com", "2", now)
	require.NoError(t, s.Users().CreateUser(ctx, older))
	require.NoError(t, s.Users().CreateUser(ctx, newer))

	require.NoError(t, s.Users().SetResetPasswordCode(ctx, older.ID, "424242", now.Add(-time.Minute)))
	require.NoError(t, s.Users().SetResetPasswordCode(ctx, newer.ID, "424242", now))

	got, err := s.Users().GetUserByResetCode(ctx, "424242")
	require.NoError(t, err)
	require.Equal(t, newer.ID, got.ID)
}

func TestUpdatePasswordHashCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	u := newPendingUser("a@x.com", "1", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, u.ID, "stale", "next", now), store.ErrNotFound)
	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "hash", "next", now))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "next", got.PasswordHash)
}

func TestUpdateLastConnectedAt(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	u := newPendingUser("a@x.com", "1", now)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	at := now.Add(time.Minute)
	require.NoError(t, s.Users().UpdateLastConnectedAt(ctx, u.ID, at))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastConnectedAt)
	require.WithinDuration(t, at, *got.LastConnectedAt, time.Millisecond)

	require.ErrorIs(t, s.Users().UpdateLastConnectedAt(ctx, "missing", at), store.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newPendingUser("a@x.com", "1", time.Now().UTC())
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)

	_, err := s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearExpiredResetCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	stale := newPendingUser("a@x.com", "1", now)
	fresh := newPendingUser("b@x.com", "2", now)
	require.NoError(t, s.Users().CreateUser(ctx, stale))
	require.NoError(t, s.Users().CreateUser(ctx, fresh))

	require.NoError(t, s.Users().SetResetPasswordCode(ctx, stale.ID, "111111", now.Add(-48*time.Hour)))
	require.NoError(t, s.Users().SetResetPasswordCode(ctx, fresh.ID, "222222", now))

	n, err := s.Users().ClearExpiredResetCodes(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Users().GetUserByResetCode(ctx, "111111")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().GetUserByResetCode(ctx, "222222")
	require.NoError(t, err)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now().UTC()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, newPendingUser("a@x.com", "1", now)))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().GetUserByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, newPendingUser("a@x.com", "1", now))
	}))

	_, err = s.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, s.Ping(ctx))
}
