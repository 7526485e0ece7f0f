package domain

import "time"

// TokenTypeBearer is reported in every token response.
const TokenTypeBearer = "bearer"

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    time.Duration // access token lifetime
	IsSuperuser  bool
}

// AccessToken is the result of a refresh.
type AccessToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}
