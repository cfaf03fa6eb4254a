// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/message"
	"github.com/iyunix/go-easyemail/internal/services/draft"
)

// DefaultChatsPerPage is used when a listing request gives no page size.
const DefaultChatsPerPage = 5

const maxChatsPerPage = 100

// ChatPage is one page of a user's threads, newest first.
type ChatPage struct {
	Chats   []domain.Chat `json:"chats"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// ChatService covers thread housekeeping: listing, history, rename and delete.
type ChatService struct {
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	store       *draft.ConversationStore
	logger      Logger
}

func NewChatService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	store *draft.ConversationStore,
	logger Logger,
) (*ChatService, error) {
	if chatRepo == nil {
		return nil, draft.NewInvalidInputError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, draft.NewInvalidInputError("constructor", "message repository is required")
	}
	if store == nil {
		return nil, draft.NewInvalidInputError("constructor", "conversation store is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		store:       store,
		logger:      logger,
	}, nil
}

// ListChats returns a 1-based page of the user's chats.
func (s *ChatService) ListChats(ctx context.Context, userID uint, page, perPage int) (*ChatPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultChatsPerPage
	}
	if perPage > maxChatsPerPage {
		perPage = maxChatsPerPage
	}

	chats, total, err := s.chatRepo.FindByUserIDWithPagination(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, draft.NewInternalError("list_chats", "could not load chats", err)
	}
	return &ChatPage{Chats: chats, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, chatID uint) (*domain.Chat, error) {
	record, err := s.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return nil, s.mapChatError("get_chat", err)
	}
	return record, nil
}

// GetMessages returns every turn of the chat with its payload decrypted.
// A single unreadable turn fails the whole listing.
func (s *ChatService) GetMessages(ctx context.Context, userID, chatID uint) ([]draft.DecryptedMessage, error) {
	if _, err := s.GetChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	stored, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, draft.NewInternalError("get_messages", "could not load messages", err)
	}

	out := make([]draft.DecryptedMessage, 0, len(stored))
	for _, m := range stored {
		opened, err := s.store.Open(m)
		if err != nil {
			s.logger.Error("failed to open chat message", "chat_id", chatID, "message_id", m.ID, "error", err)
			return nil, err
		}
		out = append(out, *opened)
	}
	return out, nil
}

// RenameChat sets a new name. Empty or unchanged names are ignored.
func (s *ChatService) RenameChat(ctx context.Context, userID, chatID uint, name string) (*domain.Chat, error) {
	record, err := s.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || name == record.Name {
		return record, nil
	}

	if err := s.chatRepo.UpdateName(ctx, chatID, userID, name); err != nil {
		return nil, s.mapChatError("rename_chat", err)
	}
	record.Name = name
	s.logger.Info("chat renamed", "chat_id", chatID, "user_id", userID)
	return record, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	if err := s.chatRepo.Delete(ctx, chatID, userID); err != nil {
		return s.mapChatError("delete_chat", err)
	}
	s.logger.Info("chat deleted", "chat_id", chatID, "user_id", userID)
	return nil
}

func (s *ChatService) mapChatError(operation string, err error) error {
	if errors.Is(err, chat.ErrChatNotFound) {
		return draft.NewNotFoundError(operation, "chat not found", err)
	}
	return draft.NewInternalError(operation, "chat operation failed", err)
}
