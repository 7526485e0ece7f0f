package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/internal/auth/store/drivers/postgres/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByResetCode(ctx context.Context, code string) (domain.User, error) {
	row, err := r.q.GetUserByResetCode(ctx, mapStringNull(code))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                   u.ID,
		Email:                u.Email,
		PasswordHash:         u.PasswordHash,
		IsActive:             u.IsActive,
		IsSuperuser:          u.IsSuperuser,
		ActivationCode:       mapOptionalString(u.ActivationCode),
		ActivationCodeSentAt: mapOptionalTime(u.ActivationCodeSentAt),
		CreatedAt:            u.CreatedAt.UTC(),
		UpdatedAt:            u.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) UpdateLastConnectedAt(ctx context.Context, id string, at time.Time) error {
	return mapRowsAffected(r.q.UpdateUserLastConnectedAt(ctx, gen.UpdateUserLastConnectedAtParams{
		LastConnectedAt: mapOptionalTime(&at),
		ID:              id,
	}))
}

func (r *usersRepo) ActivateUser(ctx context.Context, id, code string, at time.Time) error {
	return mapRowsAffected(r.q.ActivateUser(ctx, gen.ActivateUserParams{
		UpdatedAt:      at.UTC(),
		ID:             id,
		ActivationCode: mapStringNull(code),
	}))
}

func (r *usersRepo) SetActivationCode(ctx context.Context, id, code string, at time.Time) error {
	return mapRowsAffected(r.q.SetUserActivationCode(ctx, gen.SetUserActivationCodeParams{
		ActivationCode:       mapStringNull(code),
		ActivationCodeSentAt: mapOptionalTime(&at),
		UpdatedAt:            at.UTC(),
		ID:                   id,
	}))
}

func (r *usersRepo) SetResetPasswordCode(ctx context.Context, id, code string, at time.Time) error {
	return mapRowsAffected(r.q.SetUserResetPasswordCode(ctx, gen.SetUserResetPasswordCodeParams{
		ResetPasswordCode:       mapStringNull(code),
		ResetPasswordCodeSentAt: mapOptionalTime(&at),
		UpdatedAt:               at.UTC(),
		ID:                      id,
	}))
}

func (r *usersRepo) ConsumeResetPasswordCode(ctx context.Context, id, code, newHash string, at time.Time) error {
	return mapRowsAffected(r.q.ConsumeUserResetPasswordCode(ctx, gen.ConsumeUserResetPasswordCodeParams{
		PasswordHash:      newHash,
		UpdatedAt:         at.UTC(),
		ID:                id,
		ResetPasswordCode: mapStringNull(code),
	}))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, currentHash, newHash string, at time.Time) error {
	return mapRowsAffected(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash:        newHash,
		UpdatedAt:           at.UTC(),
		ID:                  id,
		CurrentPasswordHash: currentHash,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return mapRowsAffected(r.q.DeleteUser(ctx, id))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) ClearExpiredResetCodes(ctx context.Context, before time.Time) (int64, error) {
	return r.q.ClearExpiredResetCodes(ctx, mapOptionalTime(&before))
}
