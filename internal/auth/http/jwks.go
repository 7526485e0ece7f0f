package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// JWKSHandler publishes the public half of the signing keys so resource
// servers can verify access tokens without calling back.
//
//	@Summary		Get JWKS
//	@Description	Returns the Ed25519 public keys (OKP JWKs) that verify issued tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Public keys may be cached briefly by verifiers.
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(authsdk.JWKSResponse(keys.KeySet.PublicJWKS()))
	}
}
