package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/auth/domain"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// writeServiceError maps a service error onto its API error. Anything
// unrecognised is logged and reported as a generic server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		authsdk.ErrConflict.WriteError(w)
	case errors.Is(err, domain.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, domain.ErrAccountNotActivated):
		authsdk.ErrAccountNotActivated.WriteError(w)
	case errors.Is(err, domain.ErrInvalidCode):
		authsdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, domain.ErrAlreadyActive):
		authsdk.ErrAlreadyActive.WriteError(w)
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		authsdk.ErrInvalidOrExpiredCode.WriteError(w)
	case errors.Is(err, domain.ErrCurrentPasswordIncorrect):
		authsdk.ErrCurrentPasswordIncorrect.WriteError(w)
	case errors.Is(err, domain.ErrNewPasswordMustDiffer):
		authsdk.ErrNewPasswordMustDiffer.WriteError(w)
	case errors.Is(err, domain.ErrSelfDeletionForbidden):
		authsdk.ErrSelfDeletionForbidden.WriteError(w)
	case errors.Is(err, domain.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, jwtx.ErrInvalidToken),
		errors.Is(err, jwtx.ErrTokenExpired),
		errors.Is(err, jwtx.ErrWrongTokenType):
		httpx.WriteBearerError(w, httpx.TokenErrorDescription(err))
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// decodeRequest reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler should continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst httpx.Validatable) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("invalid request body", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}

	if err := dst.Validate(); err != nil {
		details := httpx.ValidationDetails(err)
		if details == nil {
			details = map[string]string{"body": err.Error()}
		}
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, authsdk.ValidationErrorResponse{
			Code:    authsdk.ErrorCodeValidation,
			Message: "validation failed for some fields",
			Details: details,
		})
		return false
	}
	return true
}

func toUserResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		IsActive:        u.IsActive,
		IsSuperuser:     u.IsSuperuser,
		LastConnectedAt: u.LastConnectedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
