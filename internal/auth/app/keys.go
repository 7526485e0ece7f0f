package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// InitAuthKeys creates the KeyManager used to sign and verify tokens.
//
// Key modes:
//   - ephemeral (AUTH_SIGNING_KEY_FILE unset): keys are generated on startup
//     and live only in memory. Every token becomes invalid on restart.
//   - file: a single Ed25519 key is read from AUTH_SIGNING_KEY_FILE, or
//     generated there on first start. Tokens survive restarts.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		NumKeys:    cfg.NumKeys,
	}

	if cfg.SigningKeyFile == "" {
		keyManager, err := jwtx.NewEphemeralKeyManager(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"algorithm", keyManager.Algorithm(),
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)
		logger.Warn("all existing tokens are now invalid due to key rotation on startup")
		return keyManager, nil
	}

	pemKey, created, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	if created {
		logger.Info("generated new signing key", "path", cfg.SigningKeyFile)
	}

	keyManager, err := jwtx.NewKeyManagerFromPEM(opts, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	logger.Info("signing key loaded",
		"algorithm", keyManager.Algorithm(),
		"path", cfg.SigningKeyFile,
		"issuer", cfg.Issuer,
	)
	return keyManager, nil
}
