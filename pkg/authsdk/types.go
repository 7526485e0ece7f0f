package authsdk

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// Password length bounds enforced on every password a client chooses.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every failed request except validation
// failures. Client code should use APIError instead.
type ErrorResponse struct {
	// Error is the machine readable error code (e.g. "conflict")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned with 422 when a payload fails validation.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest creates a new account. The account stays inactive until the
// emailed activation code is submitted.
type RegisterRequest struct {
	Email    string `json:"email" example:"a@example.com"`
	Password string `json:"password" example:"pw12345678"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// CreateUserRequest is the admin variant of RegisterRequest.
type CreateUserRequest struct {
	Email       string `json:"email" example:"ops@example.com"`
	Password    string `json:"password" example:"pw12345678"`
	IsSuperuser bool   `json:"is_superuser" example:"false"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// UserResponse describes an account. Codes and hashes are never exposed.
type UserResponse struct {
	ID              string     `json:"id" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZB"`
	Email           string     `json:"email" example:"a@example.com"`
	IsActive        bool       `json:"is_active" example:"true"`
	IsSuperuser     bool       `json:"is_superuser" example:"false"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ActivateRequest submits the activation code sent at registration.
type ActivateRequest struct {
	Email          string `json:"email" example:"a@example.com"`
	ActivationCode string `json:"activation_code" example:"123456"`
}

func (r ActivateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ActivationCode, validation.Required, validation.Length(1, 32)),
	)
}

// EmailRequest carries only an email address. Used to resend an activation
// code and to request a password reset.
type EmailRequest struct {
	Email string `json:"email" example:"a@example.com"`
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetPasswordRequest consumes a reset code and sets a new password.
type ResetPasswordRequest struct {
	Code        string `json:"code" example:"123456"`
	NewPassword string `json:"new_password" example:"new-password"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// UpdatePasswordRequest changes the password of the authenticated user.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" example:"pw12345678"`
	NewPassword     string `json:"new_password" example:"new-password"`
}

func (r UpdatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength)),
	)
}

// MessageResponse is the body of operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Account activated successfully"`
	Success bool   `json:"success,omitempty" example:"true"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by POST /v1/auth/login.
type TokenResponse struct {
	// AccessToken authenticates API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged at /v1/auth/refresh for new access tokens
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type" example:"bearer"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in" example:"1800"`

	IsSuperuser bool `json:"is_superuser" example:"false"`
}

// AccessTokenResponse is returned by POST /v1/auth/refresh. The refresh token
// itself is not rotated.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int    `json:"expires_in" example:"1800"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the public keys used to verify access tokens.
type JWKSResponse jwtx.JWKS
