// File: internal/services/mail/interface.go
package mail

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedService = errors.New("unsupported mail service")
	ErrInvalidToken       = errors.New("invalid OAuth token payload")
	ErrNoRecipients       = errors.New("at least one recipient is required")
)

// Client sends mail through a linked mailbox. sender is "Name <address>".
type Client interface {
	SendEmail(ctx context.Context, sender string, to []string, subject, body string, cc, bcc []string) error
	ReplyEmail(ctx context.Context, sender, messageID, body, subject string, cc, bcc []string) error
}

// Logger is the subset of services.Logger used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
