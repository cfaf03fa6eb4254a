// File: internal/services/draft/format.go
package draft

import (
	"fmt"
	"strings"

	"github.com/iyunix/go-easyemail/internal/domain"
)

// UnknownLength is the guidance used for unrecognized length categories.
const UnknownLength = "Unknown"

var lengthGuidance = map[string]string{
	"short":      "Short (50-125 words)",
	"medium":     "Medium (125-250 words)",
	"long":       "Long (250-500 words)",
	"extra_long": "Extra Long (500+ words)",
}

// LengthGuidance maps a length category to its word-count guidance. Older
// turns stored the guidance text itself, which is accepted unchanged.
func LengthGuidance(length string) (string, bool) {
	if guidance, ok := lengthGuidance[length]; ok {
		return guidance, true
	}
	for _, guidance := range lengthGuidance {
		if guidance == length {
			return guidance, true
		}
	}
	return UnknownLength, false
}

// FormatContacts renders a labelled contact block for the prompt. It
// reports false for an empty list so the caller can omit the block.
func FormatContacts(contacts []NormalizedContact, label string) (string, bool) {
	if len(contacts) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(label + ": \n")
	for i, c := range contacts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Contact %d:\n", i+1)
		if has(c.Name) {
			fmt.Fprintf(&b, "Name: %s\n", *c.Name)
		}
		fmt.Fprintf(&b, "Email: %s\n", c.Email)
		if has(c.Company) {
			fmt.Fprintf(&b, "Company: %s - %s\n", *c.Company, deref(c.WorkTitle))
		}
		if has(c.College) {
			fmt.Fprintf(&b, "College: %s - %s\n", *c.College, deref(c.Major))
		}
		if has(c.PhoneCode) && has(c.PhoneNumber) {
			fmt.Fprintf(&b, "Phone: %s%s\n", *c.PhoneCode, *c.PhoneNumber)
		}
	}
	return b.String(), true
}

// FormatSender renders the sender identity. Optional lines appear only
// when both of their fields are set.
func FormatSender(credential *domain.Credential, user *domain.User) string {
	lines := []string{
		"Full Name: " + credential.FullName(),
		"Email: " + credential.Email,
	}
	if has(user.PhoneCode) && has(user.PhoneNumber) {
		lines = append(lines, fmt.Sprintf("Phone: %s %s", *user.PhoneCode, *user.PhoneNumber))
	}
	if has(user.Company) && has(user.WorkTitle) {
		lines = append(lines, fmt.Sprintf("Company: %s, %s", *user.Company, *user.WorkTitle))
	}
	if has(user.College) && has(user.Major) {
		lines = append(lines, fmt.Sprintf("College: %s, %s", *user.College, *user.Major))
	}
	return strings.Join(lines, "\n")
}

// formatRecipients renders the to/cc/bcc blocks that are present.
func formatRecipients(recipients Recipients) []string {
	var blocks []string
	for _, group := range []struct {
		contacts []NormalizedContact
		label    string
	}{
		{recipients.To, "To"},
		{recipients.Cc, "Cc"},
		{recipients.Bcc, "Bcc"},
	} {
		if block, ok := FormatContacts(group.contacts, group.label); ok {
			blocks = append(blocks, strings.TrimSuffix(block, "\n"))
		}
	}
	return blocks
}

func has(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
