package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegistrationFlow covers register, activation and the first login.
func TestRegistrationFlow(t *testing.T) {
	ac, cleanup := setupAccountsContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := authsdk.NewSDKClient(ac.BaseURL)
	const email = "alice@example.com"

	user, err := client.Register(ctx, authsdk.RegisterRequest{Email: email, Password: userPassword})
	require.NoError(t, err)
	require.False(t, user.IsActive)

	_, err = client.Register(ctx, authsdk.RegisterRequest{Email: email, Password: userPassword})
	require.ErrorIs(t, err, authsdk.ErrConflict, "duplicate email")

	_, err = client.Login(ctx, email, userPassword)
	require.ErrorIs(t, err, authsdk.ErrAccountNotActivated)

	_, err = client.Login(ctx, email, "wrong-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials, "wrong password reveals nothing about activation")

	code := ac.latestCode(t, "activation", email)
	require.Len(t, code, 6)

	_, err = client.Activate(ctx, email, code)
	require.NoError(t, err)

	_, err = client.Activate(ctx, email, code)
	require.ErrorIs(t, err, authsdk.ErrAlreadyActive)

	tokens, err := client.Login(ctx, email, userPassword)
	require.NoError(t, err)
	assertTokenResponse(t, tokens)
	require.False(t, tokens.IsSuperuser)

	me, err := client.NewSessionFromTokens(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn).Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.True(t, me.IsActive)
}

// TestPasswordResetFlow covers forgot-password, reset and password update.
func TestPasswordResetFlow(t *testing.T) {
	ac, cleanup := setupAccountsContainer(t)
	defer cleanup()

	ctx := t.Context()
	client := authsdk.NewSDKClient(ac.BaseURL)
	const email = "bob@example.com"
	registerActiveUser(t, ac, client, email)

	known, err := client.ForgotPassword(ctx, email)
	require.NoError(t, err)
	unknown, err := client.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Equal(t, unknown, known, "responses must not reveal whether the email exists")

	code := ac.latestCode(t, "password_reset", email)

	_, err = client.ResetPassword(ctx, code, "Reset1234!")
	require.NoError(t, err)

	_, err = client.ResetPassword(ctx, code, "Again1234!")
	require.ErrorIs(t, err, authsdk.ErrInvalidOrExpiredCode, "codes are single use")

	_, err = client.Login(ctx, email, userPassword)
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	session, err := client.AuthenticateWithPassword(ctx, email, "Reset1234!")
	require.NoError(t, err)

	_, err = session.UpdatePassword(ctx, "Reset1234!", "Reset1234!")
	require.ErrorIs(t, err, authsdk.ErrNewPasswordMustDiffer)

	_, err = session.UpdatePassword(ctx, "Reset1234!", "Final1234!")
	require.NoError(t, err)

	_, err = client.Login(ctx, email, "Final1234!")
	require.NoError(t, err)
}

// TestRequestValidation verifies malformed payloads are rejected with field details.
func TestRequestValidation(t *testing.T) {
	ac, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(ac.BaseURL)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{Email: "not-an-email", Password: "short"})

	var verr *authsdk.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, 422, verr.StatusCode)
	require.Contains(t, verr.Details, "email")
	require.Contains(t, verr.Details, "password")
}
