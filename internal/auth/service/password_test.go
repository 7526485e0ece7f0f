package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.activeUser(t, "a@x.com", "pw12345678")

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		require.NoError(t, f.svc.RequestPasswordReset(ctx, "nobody@x.com"))
		f.svc.Wait()
		require.Empty(t, f.notifier.resets())
	})

	t.Run("known email stores and sends a code", func(t *testing.T) {
		require.NoError(t, f.svc.RequestPasswordReset(ctx, "A@X.com"))
		f.svc.Wait()

		sent := f.notifier.resets()
		require.Len(t, sent, 1)
		require.Equal(t, "a@x.com", sent[0].Email)
		require.Regexp(t, `^[0-9]{6}$`, sent[0].Code)

		stored, err := f.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, sent[0].Code, *stored.ResetPasswordCode)
	})

	t.Run("mailer failure is not surfaced", func(t *testing.T) {
		f.notifier.mu.Lock()
		f.notifier.fail = true
		f.notifier.mu.Unlock()
		t.Cleanup(func() {
			f.notifier.mu.Lock()
			f.notifier.fail = false
			f.notifier.mu.Unlock()
		})

		require.NoError(t, f.svc.RequestPasswordReset(ctx, "a@x.com"))
		f.svc.Wait()
	})
}

func requestResetCode(t *testing.T, f *fixture, email string) string {
	t.Helper()
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), email))
	f.svc.Wait()
	sent := f.notifier.resets()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1].Code
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.activeUser(t, "a@x.com", "pw12345678")
	code := requestResetCode(t, f, "a@x.com")

	require.ErrorIs(t, f.svc.ResetPassword(ctx, "", "new-password"), domain.ErrInvalidOrExpiredCode)

	require.NoError(t, f.svc.ResetPassword(ctx, code, "new-password"))

	stored, err := f.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, stored.ResetPasswordCode)
	require.NoError(t, cryptox.VerifyPassword("new-password", stored.PasswordHash))

	_, err = f.svc.Authenticate(ctx, "a@x.com", "new-password")
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.ResetPassword(ctx, code, "another-password"), domain.ErrInvalidOrExpiredCode)
}

func TestResetPasswordExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.activeUser(t, "a@x.com", "pw12345678")
	code := requestResetCode(t, f, "a@x.com")

	f.clock.Advance(f.svc.CodeTTL + time.Second)
	require.ErrorIs(t, f.svc.ResetPassword(ctx, code, "new-password"), domain.ErrInvalidOrExpiredCode)

	_, err := f.svc.Authenticate(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)
}

func TestResetPasswordConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.activeUser(t, "a@x.com", "pw12345678")
	code := requestResetCode(t, f, "a@x.com")

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.svc.ResetPassword(ctx, code, "new-password")
		}()
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidOrExpiredCode):
			rejected++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, rejected)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.activeUser(t, "a@x.com", "pw12345678")

	t.Run("unknown user", func(t *testing.T) {
		err := f.svc.UpdatePassword(ctx, "missing", "pw12345678", "new-password")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong current password", func(t *testing.T) {
		err := f.svc.UpdatePassword(ctx, u.ID, "wrong-password", "new-password")
		require.ErrorIs(t, err, domain.ErrCurrentPasswordIncorrect)

		stored, err := f.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.PasswordHash, stored.PasswordHash)
	})

	t.Run("same password", func(t *testing.T) {
		err := f.svc.UpdatePassword(ctx, u.ID, "pw12345678", "pw12345678")
		require.ErrorIs(t, err, domain.ErrNewPasswordMustDiffer)

		stored, err := f.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.PasswordHash, stored.PasswordHash)
	})

	t.Run("changes password", func(t *testing.T) {
		require.NoError(t, f.svc.UpdatePassword(ctx, u.ID, "pw12345678", "new-password"))

		_, err := f.svc.Authenticate(ctx, "a@x.com", "pw12345678")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = f.svc.Authenticate(ctx, "a@x.com", "new-password")
		require.NoError(t, err)
	})
}

// Codes are not unique across users. When two accounts hold the same reset
// code, the most recently issued one is reset, whoever submits it.
func TestResetPasswordCodeCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	older := f.activeUser(t, "older@x.com", "older-password")
	newer := f.activeUser(t, "newer@x.com", "newer-password")

	now := f.clock.Now()
	require.NoError(t, f.store.Users().SetResetPasswordCode(ctx, older.ID, "424242", now.Add(-time.Minute)))
	require.NoError(t, f.store.Users().SetResetPasswordCode(ctx, newer.ID, "424242", now))

	require.NoError(t, f.svc.ResetPassword(ctx, "424242", "changed-password"))

	_, err := f.svc.Authenticate(ctx, "newer@x.com", "changed-password")
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, "older@x.com", "older-password")
	require.NoError(t, err)

	stored, err := f.store.Users().GetUserByID(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordCode, "the older holder keeps its code")

	// The older holder's code now resolves to its own account.
	require.NoError(t, f.svc.ResetPassword(ctx, "424242", "older-changed"))
	_, err = f.svc.Authenticate(ctx, "older@x.com", "older-changed")
	require.NoError(t, err)
}
