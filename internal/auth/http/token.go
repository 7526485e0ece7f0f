package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/auth/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// LoginHandler serves POST /v1/auth/login.
// Accepts application/x-www-form-urlencoded with username and password.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Exchanges email and password for an access and a refresh token.
//	@Tags			Tokens
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Account email"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in, is_superuser"
//	@Failure		400			{object}	authsdk.ErrorResponse	"Malformed form"
//	@Failure		401			{object}	authsdk.ErrorResponse	"Incorrect email or password"
//	@Failure		403			{object}	authsdk.ErrorResponse	"Account not activated"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") &&
		!strings.HasPrefix(ct, "multipart/form-data") {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest,
			"content-type must be application/x-www-form-urlencoded").WriteError(w)
		return
	}

	// 2. Parse the form body
	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 3. Authenticate and issue tokens
	pair, err := h.AuthService.Login(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		IsSuperuser:  pair.IsSuperuser,
	})
}

// RefreshHandler serves POST /v1/auth/refresh. The refresh token travels in
// the Authorization header.
type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Refresh access token
//	@Description	Issues a new access token for a valid refresh token sent as a bearer token.
//	@Tags			Tokens
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccessTokenResponse	"access_token, token_type, expires_in"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid, expired or wrong type of token"
//	@Failure		404	{object}	authsdk.ErrorResponse		"User no longer exists"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteBearerError(w, "missing bearer token")
		return
	}

	tok, err := h.AuthService.Refresh(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AccessTokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
	})
}
