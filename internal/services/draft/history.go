// File: internal/services/draft/history.go
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/message"
	"github.com/iyunix/go-easyemail/internal/services/ai"
)

// ConversationStore persists turns as encrypted JSON and replays them as
// model conversation history.
type ConversationStore struct {
	chats    chat.ChatRepository
	messages message.MessageRepository
	cipher   Cipher
	resolver *ContactResolver
}

func NewConversationStore(chats chat.ChatRepository, messages message.MessageRepository, cipher Cipher, resolver *ContactResolver) *ConversationStore {
	return &ConversationStore{chats: chats, messages: messages, cipher: cipher, resolver: resolver}
}

// Seal encrypts payload into an unsaved turn of the given author type.
func (s *ConversationStore) Seal(author string, payload interface{}) (*domain.Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, NewInternalError("seal", "failed to encode turn", err)
	}
	sealed, err := s.cipher.Encrypt(raw)
	if err != nil {
		return nil, NewInternalError("seal", "failed to encrypt turn", err)
	}
	return &domain.Message{ChatType: author, Data: sealed}, nil
}

// Start creates chat together with its first user and assistant turns.
func (s *ConversationStore) Start(ctx context.Context, c *domain.Chat, user UserTurn, assistant AssistantTurn) (*domain.Message, *domain.Message, error) {
	userMsg, assistantMsg, err := s.sealPair(user, assistant)
	if err != nil {
		return nil, nil, err
	}
	if err := s.chats.CreateWithMessages(ctx, c, userMsg, assistantMsg); err != nil {
		return nil, nil, NewInternalError("start", "failed to save chat", err)
	}
	return userMsg, assistantMsg, nil
}

// Append adds a user and assistant turn to an existing chat and renames it,
// all in one transaction.
func (s *ConversationStore) Append(ctx context.Context, chatID, userID uint, name string, user UserTurn, assistant AssistantTurn) (*domain.Message, *domain.Message, error) {
	userMsg, assistantMsg, err := s.sealPair(user, assistant)
	if err != nil {
		return nil, nil, err
	}

	err = s.chats.AppendMessages(ctx, chatID, userID, &name, userMsg, assistantMsg)
	switch {
	case errors.Is(err, chat.ErrChatAlreadySent):
		return nil, nil, NewAlreadySentError("append", chatID)
	case errors.Is(err, chat.ErrChatNotFound):
		return nil, nil, NewNotFoundError("append", "chat not found", err)
	case err != nil:
		return nil, nil, NewInternalError("append", "failed to save turns", err)
	}
	return userMsg, assistantMsg, nil
}

func (s *ConversationStore) sealPair(user UserTurn, assistant AssistantTurn) (*domain.Message, *domain.Message, error) {
	userMsg, err := s.Seal(domain.ChatTypeUser, user)
	if err != nil {
		return nil, nil, err
	}
	assistantMsg, err := s.Seal(domain.ChatTypeAssistant, assistant)
	if err != nil {
		return nil, nil, err
	}
	return userMsg, assistantMsg, nil
}

// Replay returns up to limit of the most recent turns, oldest first, and
// whether any of them is an assistant turn. A turn that cannot be opened
// fails the whole replay.
func (s *ConversationStore) Replay(ctx context.Context, chatID, requester uint, limit int) ([]ai.Message, bool, error) {
	stored, err := s.messages.FindRecentMessages(ctx, chatID, limit)
	if err != nil {
		return nil, false, NewInternalError("replay", "failed to load history", err)
	}

	history := make([]ai.Message, 0, len(stored))
	hasAssistant := false
	for _, m := range stored {
		opened, err := s.Open(m)
		if err != nil {
			return nil, false, err
		}

		switch turn := opened.Data.(type) {
		case *AssistantTurn:
			hasAssistant = true
			history = append(history, ai.Message{Role: ai.RoleAssistant, Content: renderAssistantHistory(*turn)})
		case *UserTurn:
			recipients, err := s.resolver.Resolve(ctx, turn.Contacts, requester)
			if err != nil {
				return nil, false, err
			}
			history = append(history, ai.Message{Role: ai.RoleUser, Content: renderUserHistory(recipients, *turn)})
		}
	}
	return history, hasAssistant, nil
}

// Open decrypts and decodes one stored turn. Data is *UserTurn or *AssistantTurn.
func (s *ConversationStore) Open(m domain.Message) (*DecryptedMessage, error) {
	raw, err := s.cipher.Decrypt(m.Data)
	if err != nil {
		return nil, s.integrityError(m, "failed to decrypt turn", err)
	}

	var data interface{}
	switch m.ChatType {
	case domain.ChatTypeUser:
		var turn UserTurn
		if err := json.Unmarshal(raw, &turn); err != nil {
			return nil, s.integrityError(m, "failed to decode user turn", err)
		}
		data = &turn
	case domain.ChatTypeAssistant:
		var turn AssistantTurn
		if err := json.Unmarshal(raw, &turn); err != nil {
			return nil, s.integrityError(m, "failed to decode assistant turn", err)
		}
		data = &turn
	default:
		return nil, s.integrityError(m, fmt.Sprintf("unknown turn type %q", m.ChatType), nil)
	}

	return &DecryptedMessage{
		ID:        m.ID,
		ChatID:    m.ChatID,
		ChatType:  m.ChatType,
		Data:      data,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (s *ConversationStore) integrityError(m domain.Message, msg string, cause error) *DraftError {
	err := NewDataIntegrityError("open_turn", fmt.Sprintf("%s %d", msg, m.ID), cause)
	err.ChatID = m.ChatID
	err.UserID = m.UserID
	return err
}
