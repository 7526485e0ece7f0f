package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/accounts/pkg/idx"
)

// setupPostgres starts a throwaway postgres container and returns a migrated store.
func setupPostgres(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "accounts",
			"POSTGRES_PASSWORD": "accounts",
			"POSTGRES_DB":       "accounts",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://accounts:accounts@%s:%s/accounts?sslmode=disable", host, port.Port())

	s, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	// Second run is a no-op.
	require.NoError(t, s.ApplyMigrations())

	return s
}

func newPendingUser(email, code string, now time.Time) domain.User {
	return domain.User{
		ID:                   idx.New().String(),
		Email:                email,
		PasswordHash:         "hash",
		ActivationCode:       &code,
		ActivationCodeSentAt: &now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestPostgresUsers(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	u := newPendingUser("a@x.com", "123456", now)

	t.Run("create and read", func(t *testing.T) {
		require.NoError(t, s.Users().CreateUser(ctx, u))
		require.ErrorIs(t, s.Users().CreateUser(ctx, newPendingUser("a@x.com", "1", now)), store.ErrAlreadyExists)

		got, err := s.Users().GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.False(t, got.IsActive)
		require.Equal(t, "123456", *got.ActivationCode)
		require.True(t, now.Equal(got.CreatedAt))

		_, err = s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("activation", func(t *testing.T) {
		require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "000000", now), store.ErrNotFound)
		require.NoError(t, s.Users().ActivateUser(ctx, u.ID, "123456", now))
		require.ErrorIs(t, s.Users().ActivateUser(ctx, u.ID, "123456", now), store.ErrNotFound)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsActive)
		require.Nil(t, got.ActivationCode)
	})

	t.Run("reset code", func(t *testing.T) {
		require.NoError(t, s.Users().SetResetPasswordCode(ctx, u.ID, "777777", now))

		got, err := s.Users().GetUserByResetCode(ctx, "777777")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		require.NoError(t, s.Users().ConsumeResetPasswordCode(ctx, u.ID, "777777", "new", now))
		require.ErrorIs(t, s.Users().ConsumeResetPasswordCode(ctx, u.ID, "777777", "x", now), store.ErrNotFound)

		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, u.ID, "hash", "x", now), store.ErrNotFound)
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new", "newer", now))
	})

	t.Run("housekeeping", func(t *testing.T) {
		require.NoError(t, s.Users().SetResetPasswordCode(ctx, u.ID, "555555", now.Add(-48*time.Hour)))
		n, err := s.Users().ClearExpiredResetCodes(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
		require.ErrorIs(t, s.Users().DeleteUser(ctx, u.ID), store.ErrNotFound)

		empty, err := s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)
	})
}

// TestPostgresConcurrentRegistration races inserts for the same email; the
// unique index lets exactly one win.
func TestPostgresConcurrentRegistration(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Users().CreateUser(ctx, newPendingUser("race@x.com", "1", now))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, store.ErrAlreadyExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	require.Equal(t, workers-1, conflicts)
}
