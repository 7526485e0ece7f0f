package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/metrics"
	"github.com/aussiebroadwan/accounts/internal/auth/notify"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// notifyTimeout bounds a single code delivery.
const notifyTimeout = 15 * time.Second

// AuthService runs the account lifecycle: registration, activation, login,
// token refresh, password reset and change, and admin account management.
// All state lives in Store; the service itself is safe for concurrent use.
type AuthService struct {
	Store store.Store
	Keys  *jwtx.KeyManager

	// Notifier delivers activation and reset codes. When nil, codes are
	// generated and stored but never sent.
	Notifier notify.Notifier

	// Metrics may be nil.
	Metrics *metrics.Metrics

	// CodeTTL bounds the validity of activation and reset codes. Zero keeps
	// codes valid until used.
	CodeTTL time.Duration

	// Now overrides the clock, mainly for tests.
	Now func() time.Time

	// pending tracks background reset notifications.
	pending sync.WaitGroup
}

// Register creates an inactive account with a fresh activation code and tries
// to send the code. A delivery failure is logged and does not fail the call.
func (s *AuthService) Register(ctx context.Context, email, password string, isSuperuser bool) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, code, err := s.createUser(ctx, email, password, isSuperuser)
	if err != nil {
		s.Metrics.Registration(metrics.ResultFailure)
		return domain.User{}, err
	}
	s.Metrics.Registration(metrics.ResultSuccess)
	l.Info("user registered", slog.String("user_id", user.ID))

	s.sendActivationCode(ctx, user.Email, code)
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password string, isSuperuser bool) (domain.User, string, error) {
	now := s.now()

	// 1. Hash password
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	// 2. Generate activation code
	code, err := cryptox.GenerateNumericCode(cryptox.DefaultCodeLength)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("generate activation code: %w", err)
	}

	// 3. Insert; the unique email index settles concurrent registrations
	user := domain.User{
		ID:                   idx.New().String(),
		Email:                email,
		PasswordHash:         hash,
		IsActive:             false,
		IsSuperuser:          isSuperuser,
		ActivationCode:       &code,
		ActivationCodeSentAt: &now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", domain.ErrConflict
		}
		return domain.User{}, "", err
	}

	return user, code, nil
}

// Authenticate checks credentials and records the login time.
//
// Unknown emails and wrong passwords both yield ErrInvalidCredentials after
// the same amount of hashing work. A correct password on an inactive account
// yields ErrAccountNotActivated.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			burnPasswordCheck(password)
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		l.Info("login failed", slog.String("user_id", user.ID))
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return domain.User{}, domain.ErrAccountNotActivated
	}

	now := s.now()
	if err := s.Store.Users().UpdateLastConnectedAt(ctx, user.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	user.LastConnectedAt = &now

	return user, nil
}

// ActivateUser turns a pending account active when code matches.
func (s *AuthService) ActivateUser(ctx context.Context, email, code string) error {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if user.IsActive {
		return domain.ErrAlreadyActive
	}
	if !codeMatches(user.ActivationCode, code) ||
		domain.CodeExpired(user.ActivationCodeSentAt, s.CodeTTL, s.now()) {
		return domain.ErrInvalidCode
	}

	if err := s.Store.Users().ActivateUser(ctx, user.ID, code, s.now()); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		// Lost a race: either a concurrent activation or a new code.
		current, gerr := s.Store.Users().GetUserByID(ctx, user.ID)
		switch {
		case errors.Is(gerr, store.ErrNotFound):
			return domain.ErrNotFound
		case gerr != nil:
			return gerr
		case current.IsActive:
			return domain.ErrAlreadyActive
		default:
			return domain.ErrInvalidCode
		}
	}

	l.Info("user activated", slog.String("user_id", user.ID))
	return nil
}

// ResendActivationCode issues a new activation code for a pending account.
// Unknown and already active emails are ignored so the caller learns nothing.
func (s *AuthService) ResendActivationCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.IsActive {
		return nil
	}

	code, err := cryptox.GenerateNumericCode(cryptox.DefaultCodeLength)
	if err != nil {
		return fmt.Errorf("generate activation code: %w", err)
	}

	if err := s.Store.Users().SetActivationCode(ctx, user.ID, code, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil // activated or deleted meanwhile
		}
		return err
	}

	s.sendActivationCode(ctx, user.Email, code)
	return nil
}

// Wait blocks until background notifications have finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func codeMatches(stored *string, given string) bool {
	if stored == nil || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(given)) == 1
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends the same argon2 work as a real verification.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = cryptox.HashPassword("accounts-dummy-password")
	})
	_ = cryptox.VerifyPassword(password, dummyHash)
}
