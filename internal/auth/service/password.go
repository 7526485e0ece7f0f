package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// RequestPasswordReset stores a fresh reset code for email and sends it in
// the background. The result is the same whether or not the email exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	// 1. Generate up front so both paths do the same work
	code, err := cryptox.GenerateNumericCode(cryptox.DefaultCodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	// 2. Look the user up; unknown emails end here silently
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	// 3. Store the code, replacing any previous one
	if err := s.Store.Users().SetResetPasswordCode(ctx, user.ID, code, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	l.Info("password reset requested", slog.String("user_id", user.ID))

	// 4. Deliver without holding up the response
	s.sendResetCodeAsync(ctx, user.Email, code)
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset code and
// consumes the code.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	l := slogx.FromContext(ctx)
	if code == "" {
		return domain.ErrInvalidOrExpiredCode
	}

	user, err := s.Store.Users().GetUserByResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrInvalidOrExpiredCode
		}
		return err
	}

	if domain.CodeExpired(user.ResetPasswordCodeSentAt, s.CodeTTL, s.now()) {
		return domain.ErrInvalidOrExpiredCode
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// The conditional update guarantees a code is consumed once.
	if err := s.Store.Users().ConsumeResetPasswordCode(ctx, user.ID, code, hash, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrInvalidOrExpiredCode
		}
		return err
	}

	l.Info("password reset", slog.String("user_id", user.ID))
	return nil
}

// UpdatePassword changes the password of userID after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if cryptox.VerifyPassword(currentPassword, user.PasswordHash) != nil {
		return domain.ErrCurrentPasswordIncorrect
	}
	if cryptox.VerifyPassword(newPassword, user.PasswordHash) == nil {
		return domain.ErrNewPasswordMustDiffer
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, user.PasswordHash, hash, s.now()); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		// Deleted, or the password changed since we verified it.
		if _, gerr := s.Store.Users().GetUserByID(ctx, user.ID); errors.Is(gerr, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return domain.ErrCurrentPasswordIncorrect
	}

	l.Info("password updated", slog.String("user_id", user.ID))
	return nil
}
