package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// GetUser returns the account behind an access token subject.
func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// CreateUser registers an account on behalf of a superuser. The new account
// goes through activation like any other.
func (s *AuthService) CreateUser(
	ctx context.Context,
	actorID, email, password string,
	isSuperuser bool,
) (domain.User, error) {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return domain.User{}, err
	}

	user, err := s.Register(ctx, email, password, isSuperuser)
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created by admin",
		slog.String("user_id", user.ID),
		slog.String("actor_id", actorID),
	)
	return user, nil
}

// DeleteUser removes userID on behalf of actorID. Accounts cannot delete
// themselves through this path.
func (s *AuthService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.ErrSelfDeletionForbidden
	}
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("user deleted",
		slog.String("user_id", userID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// requireSuperuser fails with ErrForbidden unless actorID is an active superuser.
func (s *AuthService) requireSuperuser(ctx context.Context, actorID string) error {
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if !actor.IsActive || !actor.IsSuperuser {
		return domain.ErrForbidden
	}
	return nil
}
