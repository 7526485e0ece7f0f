package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/auth/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

const (
	msgActivated        = "Account activated successfully"
	msgActivationResent = "If the account exists and is not yet activated, a new activation code has been sent"
	msgResetRequested   = "If the email exists, a password reset link has been sent"
	msgPasswordReset    = "Password reset successfully"
	msgPasswordUpdated  = "Password updated successfully"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Creates an inactive account and emails a 6-digit activation code.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest			true	"email, password"
//	@Success		201		{object}	authsdk.UserResponse			"The created account"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Malformed body"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Email already registered"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	// Public registration never grants superuser.
	user, err := h.AuthService.Register(r.Context(), req.Email, req.Password, false)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// ActivateHandler serves POST /v1/auth/activate.
type ActivateHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Activate account
//	@Description	Activates a pending account with the code sent at registration.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ActivateRequest			true	"email, activation_code"
//	@Success		200		{object}	authsdk.MessageResponse			"message, success"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_code or already_active"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Unknown email"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/activate [post].
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ActivateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.ActivateUser(r.Context(), req.Email, req.ActivationCode); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgActivated, Success: true})
}

// ResendActivationHandler serves POST /v1/auth/activate/resend.
type ResendActivationHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Resend activation code
//	@Description	Sends a new activation code to a pending account. The response does not reveal whether the email exists.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.EmailRequest			true	"email"
//	@Success		202		{object}	authsdk.MessageResponse			"Generic message"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/activate/resend [post].
func (h *ResendActivationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.ResendActivationCode(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{Message: msgActivationResent})
}

// ForgotPasswordHandler serves POST /v1/auth/forgot-password.
type ForgotPasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Request password reset
//	@Description	Emails a password reset code. The response is identical whether or not the email is registered.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.EmailRequest			true	"email"
//	@Success		202		{object}	authsdk.MessageResponse			"Generic message"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.EmailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{Message: msgResetRequested})
}

// ResetPasswordHandler serves POST /v1/auth/reset-password.
type ResetPasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Reset password
//	@Description	Sets a new password using a reset code. Each code works once.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetPasswordRequest	true	"code, new_password"
//	@Success		200		{object}	authsdk.MessageResponse			"message, success"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_or_expired_code"
//	@Failure		422		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Router			/v1/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Code, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgPasswordReset, Success: true})
}
