package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login exchanges email and password for a token pair. The form field is
// named "username" to stay compatible with OAuth2 password-style clients.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	data := url.Values{
		"username": {email},
		"password": {password},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AccessTokenResponse, error) {
	resp, err := c.doBearerRequest(ctx, http.MethodPost, "/v1/auth/refresh", refreshToken, nil, nil)
	if err != nil {
		return nil, err
	}

	var tokenResp AccessTokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}
