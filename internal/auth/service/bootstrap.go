package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

var ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")

// BootstrapService seeds the first superuser so a fresh deployment can be
// administered without direct database access.
type BootstrapService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// EnsureAdmin creates an active superuser with the given credentials when no
// account exists yet. It reports whether an account was created.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	// 1. Check if already bootstrapped
	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return false, err
	} else if bootstrapped {
		l.Debug("bootstrap skipped, users already exist")
		return false, nil
	}

	// 2. Hash password
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return false, ErrBootstrapFailedToCreateAdmin
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	// 3. Create the admin, re-checking emptiness inside the transaction
	adminID := idx.New().String()
	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}
		err = tx.Users().CreateUser(ctx, domain.User{
			ID:           adminID,
			Email:        email,
			PasswordHash: hash,
			IsActive:     true,
			IsSuperuser:  true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrBootstrapFailedToCreateAdmin, err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		l.Info("bootstrapped admin user", slog.String("admin_user_id", adminID))
	}
	return created, nil
}
