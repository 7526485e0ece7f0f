package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/auth/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// AdminUsersHandler serves the superuser account management endpoints.
type AdminUsersHandler struct {
	AuthService *service.AuthService
}

// HandleCreate godoc
//
//	@Summary		Create user
//	@Description	Creates an account on behalf of a superuser. The account still needs activation.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.CreateUserRequest		true	"email, password, is_superuser"
//	@Success		201		{object}	authsdk.UserResponse			"The created account"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse			"Not a superuser"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Email already registered"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.CreateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.AuthService.CreateUser(ctx, actorID, req.Email, req.Password, req.IsSuperuser)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleDelete godoc
//
//	@Summary		Delete user
//	@Description	Deletes another account. Superusers cannot delete themselves.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"User deleted"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not a superuser, or self deletion"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User not found"
//	@Router			/v1/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	userID := r.PathValue("id")
	if userID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.DeleteUser(ctx, actorID, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
