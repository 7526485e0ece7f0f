package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it so a Tx exposes exactly the same
// surface and nested transactions cannot be started by accident.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. It is rolled back when fn
	// returns an error and committed otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users persists accounts. Emails are expected to be normalised by the caller.
//
// Methods that change state conditionally (ActivateUser,
// ConsumeResetPasswordCode, UpdatePasswordHash) are compare-and-swap updates:
// they return ErrNotFound when the row no longer matches, which is how
// concurrent requests for the same code lose the race.
type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByResetCode returns the user holding code. When several users
	// hold the same code the most recently issued one wins.
	GetUserByResetCode(ctx context.Context, code string) (domain.User, error)

	// CreateUser inserts u. Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdateLastConnectedAt(ctx context.Context, id string, at time.Time) error

	// ActivateUser flips is_active and clears the activation code, provided
	// the user is still inactive and holds code.
	ActivateUser(ctx context.Context, id, code string, at time.Time) error

	// SetActivationCode replaces the pending activation code of an inactive user.
	SetActivationCode(ctx context.Context, id, code string, at time.Time) error

	SetResetPasswordCode(ctx context.Context, id, code string, at time.Time) error

	// ConsumeResetPasswordCode stores newHash and clears the reset code,
	// provided the user still holds code.
	ConsumeResetPasswordCode(ctx context.Context, id, code, newHash string, at time.Time) error

	// UpdatePasswordHash replaces the password hash, provided it still
	// equals currentHash.
	UpdatePasswordHash(ctx context.Context, id, currentHash, newHash string, at time.Time) error

	// DeleteUser returns ErrNotFound when no such user exists.
	DeleteUser(ctx context.Context, id string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)

	// ClearExpiredResetCodes drops reset codes issued before the cutoff and
	// reports how many were cleared.
	ClearExpiredResetCodes(ctx context.Context, before time.Time) (int64, error)
}
