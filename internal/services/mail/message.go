// File: internal/services/mail/message.go
package mail

import (
	"bytes"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// outgoing is the provider-neutral shape of one message.
type outgoing struct {
	Sender  string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	HTML    string
	Headers map[string]string
}

// buildMIME encodes msg as an RFC 5322 message with an HTML part.
func buildMIME(msg outgoing, now time.Time) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	from, err := netmail.ParseAddress(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.Sender, err)
	}

	builder := enmime.Builder().
		From(from.Name, from.Address).
		Subject(msg.Subject).
		Date(now).
		HTML([]byte(msg.HTML))

	for _, addr := range msg.To {
		parsed := parseRecipient(addr)
		builder = builder.To(parsed.Name, parsed.Address)
	}
	for _, addr := range msg.Cc {
		parsed := parseRecipient(addr)
		builder = builder.CC(parsed.Name, parsed.Address)
	}
	// enmime leaves Bcc out of the header block; Gmail reads it from the raw message.
	if len(msg.Bcc) > 0 {
		builder = builder.Header("Bcc", strings.Join(msg.Bcc, ", "))
	}
	for name, value := range msg.Headers {
		builder = builder.Header(name, value)
	}

	root, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := root.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// parseRecipient accepts either a bare address or "Name <address>".
func parseRecipient(addr string) netmail.Address {
	if parsed, err := netmail.ParseAddress(addr); err == nil {
		return *parsed
	}
	return netmail.Address{Address: strings.TrimSpace(addr)}
}

// replySubject prefixes "Re: " unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}
