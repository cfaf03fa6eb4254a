// File: internal/services/draft/types.go
package draft

import (
	"context"
	"time"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/services/mail"
)

// ContactRef points at a stored contact by ID or carries the contact inline.
// ID wins when both are present.
type ContactRef struct {
	ID          *uint   `json:"id,omitempty"`
	Email       string  `json:"email,omitempty"`
	Name        *string `json:"name,omitempty"`
	Company     *string `json:"company,omitempty"`
	WorkTitle   *string `json:"work_title,omitempty"`
	College     *string `json:"college,omitempty"`
	Major       *string `json:"major,omitempty"`
	PhoneCode   *string `json:"phone_code,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// RecipientBucket is one caller-supplied group. Buckets carry no meaning
// beyond being flattened in order.
type RecipientBucket struct {
	To  []ContactRef `json:"to,omitempty"`
	Cc  []ContactRef `json:"cc,omitempty"`
	Bcc []ContactRef `json:"bcc,omitempty"`
}

// NormalizedContact is a resolved recipient; absent optional fields are nil.
type NormalizedContact struct {
	Name        *string `json:"name"`
	Email       string  `json:"email"`
	Company     *string `json:"company"`
	WorkTitle   *string `json:"work_title"`
	College     *string `json:"college"`
	Major       *string `json:"major"`
	PhoneCode   *string `json:"phone_code"`
	PhoneNumber *string `json:"phone_number"`
}

type Recipients struct {
	To  []NormalizedContact
	Cc  []NormalizedContact
	Bcc []NormalizedContact
}

// Emails flattens one recipient class to plain addresses.
func Emails(contacts []NormalizedContact) []string {
	if len(contacts) == 0 {
		return nil
	}
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.Email)
	}
	return out
}

// UserTurn is the persisted payload of a user turn.
type UserTurn struct {
	Contacts     []RecipientBucket `json:"contacts"`
	Instruction  string            `json:"instruction"`
	LanguageTone string            `json:"language_tone"`
	Length       string            `json:"length"`
}

// AssistantTurn is the persisted payload of an assistant turn.
type AssistantTurn struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SenderProfile is the identity a draft is written for.
type SenderProfile struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       string  `json:"email"`
	PhoneCode   *string `json:"phone_code"`
	PhoneNumber *string `json:"phone_number"`
	Company     *string `json:"company"`
	WorkTitle   *string `json:"work_title"`
	College     *string `json:"college"`
	Major       *string `json:"major"`
}

func newSenderProfile(user *domain.User, credential *domain.Credential) SenderProfile {
	return SenderProfile{
		ID:          user.ID,
		FirstName:   credential.FirstName,
		LastName:    credential.LastName,
		Email:       credential.Email,
		PhoneCode:   user.PhoneCode,
		PhoneNumber: user.PhoneNumber,
		Company:     user.Company,
		WorkTitle:   user.WorkTitle,
		College:     user.College,
		Major:       user.Major,
	}
}

// DraftResult is returned by GenerateEmail and ModifyEmail so callers can
// display the draft without decrypting it again.
type DraftResult struct {
	ChatID             uint              `json:"chat_id"`
	AssistantMessageID uint              `json:"assistant_message_id"`
	UserMessageID      uint              `json:"user_message_id"`
	Contacts           []RecipientBucket `json:"contacts"`
	User               SenderProfile     `json:"user"`
	Input              UserTurn          `json:"input"`
	Output             AssistantTurn     `json:"output"`
}

// DecryptedMessage is a stored turn with its payload opened.
type DecryptedMessage struct {
	ID        uint        `json:"id"`
	ChatID    uint        `json:"chat_id"`
	ChatType  string      `json:"chat_type"`
	Data      interface{} `json:"data"`
	CreatedAt time.Time   `json:"created_at"`
}

type GenerateRequest struct {
	Requester    uint
	CredentialID uint
	Contacts     []RecipientBucket
	Instruction  string
	LanguageTone string
	Length       string
	Provider     string
}

type ModifyRequest struct {
	Requester    uint
	ChatID       uint
	Contacts     []RecipientBucket
	Instruction  string
	LanguageTone string
	Length       string
	Provider     string
}

type SmartReplyRequest struct {
	Requester    uint
	CredentialID uint
	Subject      string
	Body         string
	Sender       string
	Instruction  string
	Provider     string
}

type SendRequest struct {
	Requester    uint
	ChatID       uint
	CredentialID uint
	Contacts     []RecipientBucket
	Subject      string
	Body         string
}

type ReplyRequest struct {
	Requester    uint
	CredentialID uint
	MessageID    string
	Subject      string
	Body         string
	Contacts     []RecipientBucket
}

// Logger defines the logging interface used across draft services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Cipher seals turn payloads and credential tokens.
type Cipher interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

type ContactStore interface {
	FindByIDForUser(ctx context.Context, contactID, userID uint) (*domain.Contact, error)
}

type CredentialStore interface {
	FindByIDAndUserID(ctx context.Context, credentialID, userID uint) (*domain.Credential, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

type TextExtractor interface {
	ExtractText(html string) (string, error)
}

type Renderer interface {
	Render(body string) (string, error)
}

type MailClientFactory interface {
	ClientFor(ctx context.Context, service string, payload []byte) (mail.Client, error)
}
