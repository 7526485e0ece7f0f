package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/auth/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// MeHandler serves GET /v1/auth/me.
type MeHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the account behind the access token.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"The account"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User no longer exists"
//	@Router			/v1/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.AuthService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdatePasswordHandler serves PUT /v1/auth/password.
type UpdatePasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Change password
//	@Description	Changes the password of the authenticated user after checking the current one.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.UpdatePasswordRequest	true	"current_password, new_password"
//	@Success		200		{object}	authsdk.MessageResponse			"message, success"
//	@Failure		400		{object}	authsdk.ErrorResponse			"current_password_incorrect or new_password_must_differ"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		404		{object}	authsdk.ErrorResponse			"User no longer exists"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/password [put].
func (h *UpdatePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.UpdatePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.UpdatePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgPasswordUpdated, Success: true})
}
