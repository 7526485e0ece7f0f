package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/accounts/internal/auth/metrics"
	"github.com/aussiebroadwan/accounts/internal/auth/notify"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

func (s *AuthService) sendActivationCode(ctx context.Context, email, code string) bool {
	if s.Notifier == nil {
		return false
	}
	return s.deliver(ctx, notify.KindActivation, email, func(ctx context.Context) error {
		return s.Notifier.SendActivationCode(ctx, email, code)
	})
}

// sendResetCodeAsync delivers a reset code in the background so the caller's
// latency does not depend on whether the email exists.
func (s *AuthService) sendResetCodeAsync(ctx context.Context, email, code string) {
	if s.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.deliver(ctx, notify.KindPasswordReset, email, func(ctx context.Context) error {
			return s.Notifier.SendResetCode(ctx, email, code)
		})
	}()
}

// deliver runs send with a bounded context, logging failures instead of
// returning them.
func (s *AuthService) deliver(ctx context.Context, kind notify.Kind, email string, send func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		slogx.FromContext(ctx).Warn("code notification not sent",
			slog.String("kind", string(kind)),
			slog.String("email", email),
			slog.Any("error", err),
		)
		s.Metrics.Notification(string(kind), metrics.ResultFailure)
		return false
	}

	s.Metrics.Notification(string(kind), metrics.ResultSuccess)
	return true
}
