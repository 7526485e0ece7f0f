package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEd25519JWK(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	j := NewEd25519JWK("kid-1", pub)
	require.Equal(t, "OKP", j.Kty)
	require.Equal(t, "Ed25519", j.Crv)
	require.Equal(t, "EdDSA", j.Alg)
	require.Equal(t, "sig", j.Use)

	parsed, err := parseEd25519JWK(j)
	require.NoError(t, err)
	require.Equal(t, pub, parsed)
}

func TestThumbprintRFC8037Vector(t *testing.T) {
	// RFC 8037 appendix A.3.
	j := JWK{Kty: "OKP", Crv: "Ed25519", X: "11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}
	require.Equal(t, "kPrK_qmxVWaYVA9wwBF6Iuo3vVzz7TxHCTwXBygrS4k", j.Thumbprint())

	// kid and use do not change the thumbprint.
	j.Kid = "anything"
	j.Use = "sig"
	require.Equal(t, "kPrK_qmxVWaYVA9wwBF6Iuo3vVzz7TxHCTwXBygrS4k", j.Thumbprint())
}

func TestKeySet(t *testing.T) {
	ks := NewKeySet()
	require.False(t, ks.IsReady())

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	require.NoError(t, ks.AddJWK(NewEd25519JWK("a", pub)))
	require.NoError(t, ks.AddJWK(NewEd25519JWK("a", pub)))
	require.True(t, ks.IsReady())
	require.Len(t, ks.PublicJWKS().Keys, 1)

	got, err := ks.Get("a")
	require.NoError(t, err)
	require.Equal(t, pub, got)

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)

	require.Error(t, ks.AddJWK(JWK{Kty: "RSA", Kid: "r"}))
	require.Error(t, ks.AddJWK(JWK{Kty: "OKP", Crv: "Ed25519", Kid: "short", X: "AAAA"}))

	raw, err := json.Marshal(ks.PublicJWKS())
	require.NoError(t, err)
	require.Contains(t, string(raw), `"keys":[{"kty":"OKP"`)
}
