package domain

import "time"

// User is an account. Email is stored lowercased and is unique.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC string
	IsActive     bool
	IsSuperuser  bool

	// Set while the account is pending activation.
	ActivationCode       *string
	ActivationCodeSentAt *time.Time

	// Set between a reset request and its consumption.
	ResetPasswordCode       *string
	ResetPasswordCodeSentAt *time.Time

	LastConnectedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CodeExpired reports whether a code issued at sentAt is older than ttl at now.
// A zero ttl never expires; a missing timestamp is treated as expired when a
// ttl is enforced.
func CodeExpired(sentAt *time.Time, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	if sentAt == nil {
		return true
	}
	return now.Sub(*sentAt) > ttl
}
