// File: internal/dtos/chat.go
package dtos

import "github.com/iyunix/go-easyemail/internal/services/draft"

// GenerateEmailRequestDTO is the body of POST /api/chat/generate.
type GenerateEmailRequestDTO struct {
	Contacts     []draft.RecipientBucket `json:"contacts"`
	OAuthID      uint                    `json:"oauth_id"`
	Instruction  string                  `json:"instruction"`
	LanguageTone string                  `json:"language_tone"`
	Length       string                  `json:"length"`
	AI           string                  `json:"ai,omitempty"`
}

func (d GenerateEmailRequestDTO) ToRequest(userID uint) draft.GenerateRequest {
	return draft.GenerateRequest{
		Requester:    userID,
		CredentialID: d.OAuthID,
		Contacts:     d.Contacts,
		Instruction:  d.Instruction,
		LanguageTone: d.LanguageTone,
		Length:       d.Length,
		Provider:     d.AI,
	}
}

// ModifyEmailRequestDTO is the body of PUT /api/chat/generate.
type ModifyEmailRequestDTO struct {
	ChatID       uint                    `json:"chat_id"`
	Contacts     []draft.RecipientBucket `json:"contacts"`
	Instruction  string                  `json:"instruction"`
	LanguageTone string                  `json:"language_tone"`
	Length       string                  `json:"length"`
	AI           string                  `json:"ai,omitempty"`
}

func (d ModifyEmailRequestDTO) ToRequest(userID uint) draft.ModifyRequest {
	return draft.ModifyRequest{
		Requester:    userID,
		ChatID:       d.ChatID,
		Contacts:     d.Contacts,
		Instruction:  d.Instruction,
		LanguageTone: d.LanguageTone,
		Length:       d.Length,
		Provider:     d.AI,
	}
}

// SendEmailRequestDTO is the body of POST /api/chat/send.
type SendEmailRequestDTO struct {
	ChatID   uint                    `json:"chat_id"`
	OAuthID  uint                    `json:"oauth_id"`
	Contacts []draft.RecipientBucket `json:"contacts"`
	Subject  string                  `json:"subject"`
	Body     string                  `json:"body"`
}

func (d SendEmailRequestDTO) ToRequest(userID uint) draft.SendRequest {
	return draft.SendRequest{
		Requester:    userID,
		ChatID:       d.ChatID,
		CredentialID: d.OAuthID,
		Contacts:     d.Contacts,
		Subject:      d.Subject,
		Body:         d.Body,
	}
}

type ParaphraseRequestDTO struct {
	Text string `json:"text"`
	AI   string `json:"ai,omitempty"`
}

// SmartReplyRequestDTO is the body of POST /api/chat/reply. Body holds the
// received message as HTML.
type SmartReplyRequestDTO struct {
	OAuthID     uint   `json:"oauth_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Sender      string `json:"sender"`
	Instruction string `json:"instruction"`
	AI          string `json:"ai,omitempty"`
}

func (d SmartReplyRequestDTO) ToRequest(userID uint) draft.SmartReplyRequest {
	return draft.SmartReplyRequest{
		Requester:    userID,
		CredentialID: d.OAuthID,
		Subject:      d.Subject,
		Body:         d.Body,
		Sender:       d.Sender,
		Instruction:  d.Instruction,
		Provider:     d.AI,
	}
}

type ReplyEmailRequestDTO struct {
	OAuthID   uint                    `json:"oauth_id"`
	MessageID string                  `json:"message_id"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	Contacts  []draft.RecipientBucket `json:"contacts"`
}

func (d ReplyEmailRequestDTO) ToRequest(userID uint) draft.ReplyRequest {
	return draft.ReplyRequest{
		Requester:    userID,
		CredentialID: d.OAuthID,
		MessageID:    d.MessageID,
		Subject:      d.Subject,
		Body:         d.Body,
		Contacts:     d.Contacts,
	}
}

type RenameChatRequestDTO struct {
	Name string `json:"name"`
}

type ParaphraseResponseDTO struct {
	Text string `json:"text"`
}

type SmartReplyResponseDTO struct {
	Reply string `json:"reply"`
}

type SentResponseDTO struct {
	Sent bool `json:"sent"`
}
