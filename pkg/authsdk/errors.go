package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// Error codes carried in the "error" field of failed responses.
const (
	ErrorCodeInvalidRequest           = "invalid_request"
	ErrorCodeInvalidGrant             = "invalid_grant"
	ErrorCodeInvalidToken             = "invalid_token"
	ErrorCodeServerError              = "server_error"
	ErrorCodeValidation               = "validation_error"
	ErrorCodeConflict                 = "conflict"
	ErrorCodeNotFound                 = "not_found"
	ErrorCodeForbidden                = "forbidden"
	ErrorCodeAccountNotActivated      = "account_not_activated"
	ErrorCodeInvalidCode              = "invalid_code"
	ErrorCodeAlreadyActive            = "already_active"
	ErrorCodeInvalidOrExpiredCode     = "invalid_or_expired_code"
	ErrorCodeCurrentPasswordIncorrect = "current_password_incorrect"
	ErrorCodeNewPasswordMustDiffer    = "new_password_must_differ"
	ErrorCodeSelfDeletionForbidden    = "self_deletion_forbidden"
)

// APIError is a failed API response. The server writes it with WriteError and
// the client decodes failed responses back into it.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code (e.g. "conflict", "invalid_code")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches another *APIError with the same status and code, so callers can
// write errors.Is(err, authsdk.ErrConflict).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is deliberately the same for unknown emails and
	// wrong passwords.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "Incorrect email or password",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "could not validate credentials",
	}

	ErrAccountNotActivated = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccountNotActivated,
		Description: "account is not activated",
	}

	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "a user with this email already exists",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "user not found",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "superuser privileges required",
	}

	ErrSelfDeletionForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeSelfDeletionForbidden,
		Description: "users cannot delete themselves",
	}

	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "invalid activation code",
	}

	ErrAlreadyActive = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeAlreadyActive,
		Description: "account is already activated",
	}

	ErrInvalidOrExpiredCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidOrExpiredCode,
		Description: "invalid or expired reset code",
	}

	ErrCurrentPasswordIncorrect = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeCurrentPasswordIncorrect,
		Description: "current password is incorrect",
	}

	ErrNewPasswordMustDiffer = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNewPasswordMustDiffer,
		Description: "new password must differ from the current password",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ValidationError is returned by the client when the server rejected the
// request payload. Details maps field names to messages.
type ValidationError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %v", ErrorCodeValidation, e.Message, e.Details)
}

// parseErrorResponse turns a failed HTTP response into a typed error.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &ValidationError{
			StatusCode: resp.StatusCode,
			Message:    valErr.Message,
			Details:    valErr.Details,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
