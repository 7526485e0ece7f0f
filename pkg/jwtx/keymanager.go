package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

// AlgorithmEdDSA is the only signing algorithm issued by KeyManager.
const AlgorithmEdDSA = "EdDSA"

// KeyManager owns the signing keys of an instance and issues and verifies
// access and refresh tokens with them.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signers    []Signer
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// KeyManagerOptions configures token issuance.
type KeyManagerOptions struct {
	// Issuer is written to and required in the "iss" claim.
	Issuer string

	// AccessTTL and RefreshTTL default to DefaultAccessTokenTTL and
	// DefaultRefreshTokenTTL when zero.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway tolerated on exp/nbf/iat when verifying.
	Leeway time.Duration

	// NumKeys is the number of ephemeral keys to generate (1 to 10, default 1).
	// Ignored by NewKeyManagerFromPEM.
	NumKeys int

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// NewEphemeralKeyManager generates fresh Ed25519 keys that only live in
// memory. Tokens issued by a previous process stop verifying after restart.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	n := opts.NumKeys
	if n <= 0 {
		n = 1
	}
	if n > 10 {
		n = 10
	}

	signers := make([]Signer, 0, n)
	for i := range n {
		kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate kid: %w", err)
		}

		pemKey, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
		}

		signer, err := NewSignerEdDSA("accounts-"+kid, pemKey)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}

	return newKeyManager(opts, signers)
}

// NewKeyManagerFromPEM builds a manager around a single PKCS8 Ed25519 key,
// typically loaded from disk so tokens survive restarts. The kid is the key
// thumbprint.
func NewKeyManagerFromPEM(opts KeyManagerOptions, pemKey []byte) (*KeyManager, error) {
	signer, err := NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, err
	}
	return newKeyManager(opts, []Signer{signer})
}

func newKeyManager(opts KeyManagerOptions, signers []Signer) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = DefaultAccessTokenTTL
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = DefaultRefreshTokenTTL
	}
	if opts.AccessTTL < 0 || opts.RefreshTTL < 0 {
		return nil, errors.New("jwtx: token TTLs must be positive")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	keys := NewKeySet()
	for _, s := range signers {
		if err := keys.AddSigner(s); err != nil {
			return nil, fmt.Errorf("jwtx: publish key %s: %w", s.KID(), err)
		}
	}

	return &KeyManager{
		Verifier:   NewVerifierEdDSA(keys, opts.Issuer, opts.Leeway, opts.Now),
		KeySet:     keys,
		signers:    signers,
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        opts.Now,
	}, nil
}

// Issue signs a token of the given type for subject and returns it with its
// expiry.
func (km *KeyManager) Issue(subject string, typ TokenType) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("jwtx: empty subject")
	}
	if !typ.Valid() {
		return "", time.Time{}, fmt.Errorf("jwtx: unknown token type %q", typ)
	}

	claims := NewClaims(subject, typ, km.issuer, km.TTL(typ), km.now().UTC())
	token, err := km.signer().Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwtx: sign %s token: %w", typ, err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify validates token and requires it to be of the expected type.
func (km *KeyManager) Verify(token string, expected TokenType) (Claims, error) {
	return km.Verifier.Verify(token, expected)
}

// TTL returns the configured lifetime of typ.
func (km *KeyManager) TTL(typ TokenType) time.Duration {
	if typ == TokenTypeRefresh {
		return km.refreshTTL
	}
	return km.accessTTL
}

func (km *KeyManager) Algorithm() string { return AlgorithmEdDSA }

func (km *KeyManager) NumSigners() int { return len(km.signers) }

func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// signer picks one of the active keys at random.
func (km *KeyManager) signer() Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}
