// Package mail defines the outgoing-mail seam used by the password-reset
// flow. The only shipped implementation writes through the structured
// logger, which is what development environments use; production plugs a
// real provider in behind the same interface.
package mail

import (
	"context"

	"github.com/dbelyakov/noteleaf/internal/logging"
)

// Mailer dispatches a password-reset one-time code to the given address.
type Mailer interface {
	SendResetCode(ctx context.Context, email, otp string) error
}

// LogMailer logs the reset code instead of sending it.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(l logging.Logger) *LogMailer {
	return &LogMailer{logger: l.With("module", "mailer")}
}

func (m *LogMailer) SendResetCode(ctx context.Context, email, otp string) error {
	m.logger.Info(ctx, "password reset email",
		"to", email,
		"subject", "Password Reset Request",
		"otp", otp,
		"expires_in", "10m",
	)
	return nil
}
