// File: internal/repository/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-easyemail/internal/domain"
)

type ChatRepository interface {
	FindByID(ctx context.Context, chatID uint) (*domain.Chat, error)
	FindByIDAndUserID(ctx context.Context, chatID, userID uint) (*domain.Chat, error)
	FindByUserIDWithPagination(ctx context.Context, userID uint, limit, offset int) ([]domain.Chat, int64, error)

	// CreateWithMessages inserts the chat and its first turns in one transaction.
	CreateWithMessages(ctx context.Context, chat *domain.Chat, messages ...*domain.Message) error
	// AppendMessages adds turns to an unsent chat and optionally renames it, atomically.
	AppendMessages(ctx context.Context, chatID, userID uint, name *string, messages ...*domain.Message) error

	UpdateName(ctx context.Context, chatID, userID uint, name string) error
	BindCredential(ctx context.Context, chatID, userID, credentialID uint) error
	MarkSent(ctx context.Context, chatID, userID uint) error
	Delete(ctx context.Context, chatID, userID uint) error
}
