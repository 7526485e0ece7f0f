package domain

import "errors"

var (
	ErrConflict            = errors.New("a user with this email already exists")
	ErrNotFound            = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrAccountNotActivated = errors.New("account not activated")

	ErrInvalidCode          = errors.New("invalid activation code")
	ErrAlreadyActive        = errors.New("account already activated")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired reset code")

	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrNewPasswordMustDiffer    = errors.New("new password must differ from the current one")

	ErrSelfDeletionForbidden = errors.New("users cannot delete themselves")
	ErrForbidden             = errors.New("not enough privileges")
)
