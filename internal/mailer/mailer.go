// Package mailer delivers password-reset codes over SMTP.
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is what the core needs: fire-and-forget delivery of a reset code.
type Mailer interface {
	SendResetCode(to, firstName, code string)
}

// SMTP sends through a real SMTP server with gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTP(host string, port int, user, password, from string, logger *zap.Logger) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		logger: logger,
	}
}

// SendResetCode emails the code asynchronously. Delivery failures are
// logged, never surfaced to the requesting user.
func (m *SMTP) SendResetCode(to, firstName, code string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nUse the following code to reset your password: %s\n\nIf you did not request a reset, ignore this email.\n",
		firstName, code,
	))

	go func() {
		if err := m.dialer.DialAndSend(msg); err != nil {
			m.logger.Error("send reset email", zap.String("to", to), zap.Error(err))
		}
	}()
}

// Discard drops all mail. Used in tests and when SMTP is not configured.
type Discard struct{}

func (Discard) SendResetCode(string, string, string) {}
