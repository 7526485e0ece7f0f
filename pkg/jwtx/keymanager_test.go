package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts jwtx.KeyManagerOptions) *jwtx.KeyManager {
	t.Helper()
	if opts.Issuer == "" {
		opts.Issuer = "test-issuer"
	}
	km, err := jwtx.NewEphemeralKeyManager(opts)
	require.NoError(t, err)
	return km
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	km := newManager(t, jwtx.KeyManagerOptions{
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})

	tests := []struct {
		typ jwtx.TokenType
		ttl time.Duration
	}{
		{jwtx.TokenTypeAccess, 5 * time.Minute},
		{jwtx.TokenTypeRefresh, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			before := time.Now()
			token, exp, err := km.Issue("user-1", tt.typ)
			require.NoError(t, err)
			require.WithinDuration(t, before.Add(tt.ttl), exp, 2*time.Second)

			claims, err := km.Verify(token, tt.typ)
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.Subject)
			require.Equal(t, "test-issuer", claims.Issuer)
			require.Equal(t, tt.typ, claims.Type)
			require.NotEmpty(t, claims.ID)
			require.NotNil(t, claims.IssuedAt)
		})
	}
}

func TestVerifyRejectsWrongType(t *testing.T) {
	t.Parallel()
	km := newManager(t, jwtx.KeyManagerOptions{})

	access, _, err := km.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)
	refresh, _, err := km.Issue("user-1", jwtx.TokenTypeRefresh)
	require.NoError(t, err)

	_, err = km.Verify(access, jwtx.TokenTypeRefresh)
	require.ErrorIs(t, err, jwtx.ErrWrongTokenType)

	_, err = km.Verify(refresh, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrWrongTokenType)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-2 * time.Hour)
	issuer := newManager(t, jwtx.KeyManagerOptions{
		AccessTTL: time.Minute,
		Now:       func() time.Time { return past },
	})

	token, _, err := issuer.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)

	v := jwtx.NewVerifierEdDSA(issuer.KeySet, "test-issuer", 0, nil)
	_, err = v.Verify(token, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrTokenExpired)

	// Expiry is reported before the type mismatch.
	_, err = v.Verify(token, jwtx.TokenTypeRefresh)
	require.ErrorIs(t, err, jwtx.ErrTokenExpired)
}

func TestVerifyLeeway(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-90 * time.Second)
	km := newManager(t, jwtx.KeyManagerOptions{
		AccessTTL: time.Minute,
		Now:       func() time.Time { return past },
	})

	token, _, err := km.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)

	// Expired 30s ago on the real clock.
	strict := jwtx.NewVerifierEdDSA(km.KeySet, "test-issuer", 0, nil)
	_, err = strict.Verify(token, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrTokenExpired)

	lenient := jwtx.NewVerifierEdDSA(km.KeySet, "test-issuer", time.Minute, nil)
	_, err = lenient.Verify(token, jwtx.TokenTypeAccess)
	require.NoError(t, err)
}

func TestVerifyInvalid(t *testing.T) {
	t.Parallel()
	km := newManager(t, jwtx.KeyManagerOptions{})
	other := newManager(t, jwtx.KeyManagerOptions{})
	foreignIssuer := newManager(t, jwtx.KeyManagerOptions{Issuer: "someone-else"})

	token, _, err := km.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)

	fromOther, _, err := other.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	wrongIssuer := jwtx.NewVerifierEdDSA(km.KeySet, "someone-else", 0, nil)
	_, err = wrongIssuer.Verify(token, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	fromForeign, _, err := foreignIssuer.Issue("user-1", jwtx.TokenTypeAccess)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered signature", tampered},
		{"unknown key", fromOther},
		{"other issuer", fromForeign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := km.Verify(tt.token, jwtx.TokenTypeAccess)
			require.ErrorIs(t, err, jwtx.ErrInvalidToken)
		})
	}
}

func TestVerifyRequiresTypeClaim(t *testing.T) {
	t.Parallel()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewClaims("user-1", "", "test-issuer", time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = jwtx.NewVerifierEdDSA(keys, "test-issuer", 0, nil).Verify(token, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestEphemeralKeyManagerKeys(t *testing.T) {
	t.Parallel()

	km := newManager(t, jwtx.KeyManagerOptions{NumKeys: 3})
	require.Equal(t, 3, km.NumSigners())
	require.True(t, km.IsReady())
	require.Len(t, km.KeySet.PublicJWKS().Keys, 3)

	// Every key can verify what it signs regardless of which one was picked.
	for range 20 {
		token, _, err := km.Issue("user-1", jwtx.TokenTypeAccess)
		require.NoError(t, err)
		_, err = km.Verify(token, jwtx.TokenTypeAccess)
		require.NoError(t, err)
	}

	capped := newManager(t, jwtx.KeyManagerOptions{NumKeys: 50})
	require.Equal(t, 10, capped.NumSigners())
}

func TestKeyManagerFromPEMIsStable(t *testing.T) {
	t.Parallel()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	opts := jwtx.KeyManagerOptions{Issuer: "test-issuer"}
	first, err := jwtx.NewKeyManagerFromPEM(opts, pemKey)
	require.NoError(t, err)
	second, err := jwtx.NewKeyManagerFromPEM(opts, pemKey)
	require.NoError(t, err)

	token, _, err := first.Issue("user-1", jwtx.TokenTypeRefresh)
	require.NoError(t, err)

	// A restarted process with the same key accepts earlier tokens.
	claims, err := second.Verify(token, jwtx.TokenTypeRefresh)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t,
		first.KeySet.PublicJWKS().Keys[0].Kid,
		second.KeySet.PublicJWKS().Keys[0].Kid,
	)
}

func TestKeyManagerOptions(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err, "issuer is required")

	_, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "x", AccessTTL: -time.Second})
	require.Error(t, err)

	km := newManager(t, jwtx.KeyManagerOptions{})
	require.Equal(t, jwtx.DefaultAccessTokenTTL, km.TTL(jwtx.TokenTypeAccess))
	require.Equal(t, jwtx.DefaultRefreshTokenTTL, km.TTL(jwtx.TokenTypeRefresh))

	_, _, err = km.Issue("", jwtx.TokenTypeAccess)
	require.Error(t, err)
	_, _, err = km.Issue("user-1", "id")
	require.Error(t, err)
}
