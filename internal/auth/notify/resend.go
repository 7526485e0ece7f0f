package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

const (
	activationSubject = "Activate your account"
	resetSubject      = "Reset your password"
)

// EmailSender is the part of the Resend emails service we use.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier sends HTML emails through the Resend API.
type ResendNotifier struct {
	Emails EmailSender
	From   string
	Now    func() time.Time
}

// NewResendNotifier returns a notifier using apiKey and the given sender address.
func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{
		Emails: resend.NewClient(apiKey).Emails,
		From:   from,
		Now:    time.Now,
	}
}

func (n *ResendNotifier) SendActivationCode(ctx context.Context, email, code string) error {
	return n.send(ctx, KindActivation, activationSubject, email, code)
}

func (n *ResendNotifier) SendResetCode(ctx context.Context, email, code string) error {
	return n.send(ctx, KindPasswordReset, resetSubject, email, code)
}

func (n *ResendNotifier) send(ctx context.Context, kind Kind, subject, email, code string) error {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	html, err := Render(kind, code, now())
	if err != nil {
		return err
	}

	_, err = n.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.From,
		To:      []string{email},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("notify: send %s email: %w", kind, err)
	}
	return nil
}
