package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens, unknown keys
	// and claims that do not belong to this issuer.
	ErrInvalidToken   = errors.New("jwtx: invalid token")
	ErrTokenExpired   = errors.New("jwtx: token expired")
	ErrWrongTokenType = errors.New("jwtx: wrong token type")
)

// Verifier validates a token of the expected type and returns its claims.
type Verifier interface {
	Verify(token string, expected TokenType) (Claims, error)
}

// EdDSAVerifier checks tokens against the Ed25519 keys in a KeySet.
type EdDSAVerifier struct {
	keys   *KeySet
	parser *jwt.Parser
}

// NewVerifierEdDSA returns a verifier that requires iss == issuer and an exp
// claim, tolerating leeway of clock skew. A nil now uses time.Now.
func NewVerifierEdDSA(keys *KeySet, issuer string, leeway time.Duration, now func() time.Time) *EdDSAVerifier {
	if now == nil {
		now = time.Now
	}
	return &EdDSAVerifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(leeway),
			jwt.WithTimeFunc(now),
		),
	}
}

// Verify checks signature, then expiry, then the token type.
func (v *EdDSAVerifier) Verify(raw string, expected TokenType) (Claims, error) {
	var claims Claims

	_, err := v.parser.ParseWithClaims(raw, &claims, v.keyFunc)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || !claims.Type.Valid() {
		return Claims{}, fmt.Errorf("%w: missing sub or typ", ErrInvalidToken)
	}
	if claims.Type != expected {
		return Claims{}, ErrWrongTokenType
	}
	return claims, nil
}

func (v *EdDSAVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("missing kid")
	}

	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return pub, nil
}
