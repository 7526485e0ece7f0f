package notify

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// LogNotifier stands in when no mailer is configured. It records that a code
// could not be delivered and reports ErrNotConfigured. The code itself is only
// logged at debug level.
type LogNotifier struct{}

func (LogNotifier) SendActivationCode(ctx context.Context, email, code string) error {
	return logUndelivered(ctx, KindActivation, email, code)
}

func (LogNotifier) SendResetCode(ctx context.Context, email, code string) error {
	return logUndelivered(ctx, KindPasswordReset, email, code)
}

func logUndelivered(ctx context.Context, kind Kind, email, code string) error {
	log := slogx.FromContext(ctx)
	log.Warn("no mailer configured, code not delivered", "kind", kind, "email", email)
	log.Log(ctx, slog.LevelDebug, "undelivered code", "kind", kind, "email", email, "code", code)
	return ErrNotConfigured
}
