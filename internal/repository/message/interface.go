// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-easyemail/internal/domain"
)

type MessageRepository interface {
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	// FindRecentMessages returns the last limit messages of a chat, oldest first.
	FindRecentMessages(ctx context.Context, chatID uint, limit int) ([]domain.Message, error)
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
}
