/*
Package authsdk provides a client SDK for the accounts service.

# SDKClient vs Session

  - SDKClient: public endpoints (registration, activation, login, password reset, health)
  - Session: endpoints that need an access token, with automatic refresh

	client := authsdk.NewSDKClient("https://accounts.example.com")

	user, err := client.Register(ctx, authsdk.RegisterRequest{Email: "a@example.com", Password: "pw12345678"})
	_, err = client.Activate(ctx, "a@example.com", codeFromEmail)

	session, err := client.AuthenticateWithPassword(ctx, "a@example.com", "pw12345678")
	me, err := session.Me(ctx)

# Errors

Failed requests return *APIError, or *ValidationError when the payload was
rejected. APIError values compare with errors.Is against the predefined
errors:

	_, err := client.Login(ctx, email, password)
	switch {
	case errors.Is(err, authsdk.ErrAccountNotActivated):
		// ask for the activation code
	case errors.Is(err, authsdk.ErrInvalidCredentials):
		// wrong email or password
	}

The same types are written by the server, so the wire format stays in one place.
*/
package authsdk
