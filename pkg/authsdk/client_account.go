package authsdk

import (
	"context"
	"net/http"
)

// Register creates an inactive account. The activation code is delivered by
// email, never in the response.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.postJSON(ctx, "/v1/auth/register", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Activate submits an activation code.
func (c *SDKClient) Activate(ctx context.Context, email, code string) (*MessageResponse, error) {
	var msg MessageResponse
	req := ActivateRequest{Email: email, ActivationCode: code}
	if err := c.postJSON(ctx, "/v1/auth/activate", req, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResendActivation asks for a new activation code. The response is the same
// whether or not the email belongs to a pending account.
func (c *SDKClient) ResendActivation(ctx context.Context, email string) (*MessageResponse, error) {
	var msg MessageResponse
	if err := c.postJSON(ctx, "/v1/auth/activate/resend", EmailRequest{Email: email}, &msg, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ForgotPassword asks for a password reset code. The response is the same
// whether or not the email is registered.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var msg MessageResponse
	if err := c.postJSON(ctx, "/v1/auth/forgot-password", EmailRequest{Email: email}, &msg, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResetPassword consumes a reset code and sets a new password.
func (c *SDKClient) ResetPassword(ctx context.Context, code, newPassword string) (*MessageResponse, error) {
	var msg MessageResponse
	req := ResetPasswordRequest{Code: code, NewPassword: newPassword}
	if err := c.postJSON(ctx, "/v1/auth/reset-password", req, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *SDKClient) postJSON(ctx context.Context, path string, in, out any, expectedStatus int) error {
	body, headers, err := jsonBody(in)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, body, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, expectedStatus)
}
