// Package notify delivers activation and password reset codes out of band.
package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"
)

// ErrNotConfigured is returned by notifiers that cannot deliver anything.
var ErrNotConfigured = errors.New("notify: no mailer configured")

// Notifier sends one-time codes to a user. Implementations must be safe for
// concurrent use.
type Notifier interface {
	SendActivationCode(ctx context.Context, email, code string) error
	SendResetCode(ctx context.Context, email, code string) error
}

// Kind names a message for logs and metrics.
type Kind string

const (
	KindActivation    Kind = "activation"
	KindPasswordReset Kind = "password_reset"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var templateFiles = map[Kind]string{
	KindActivation:    "activation.html",
	KindPasswordReset: "password_reset.html",
}

type templateData struct {
	Code string
	Year int
}

// Render returns the HTML body for kind with code filled in.
func Render(kind Kind, code string, now time.Time) (string, error) {
	name, ok := templateFiles[kind]
	if !ok {
		return "", fmt.Errorf("notify: unknown message kind %q", kind)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, templateData{Code: code, Year: now.Year()}); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", kind, err)
	}
	return buf.String(), nil
}
