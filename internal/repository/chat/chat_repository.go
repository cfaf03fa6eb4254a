// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iyunix/go-easyemail/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")
var ErrChatAlreadySent = errors.New("chat already sent")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	return r.handleFindError(err, &chat)
}

// FindByIDAndUserID returns the chat only when it belongs to userID.
func (r *gormChatRepository) FindByIDAndUserID(ctx context.Context, chatID, userID uint) (*domain.Chat, error) {
	if chatID == 0 || userID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", chatID, userID).
		First(&chat).Error
	return r.handleFindError(err, &chat)
}

// FindByUserIDWithPagination returns one page of the user's chats, newest first, plus the total count.
func (r *gormChatRepository) FindByUserIDWithPagination(ctx context.Context, userID uint, limit, offset int) ([]domain.Chat, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("invalid user ID")
	}

	// Memory safety: enforce maximum limit
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error counting chats: %w", err)
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&chats).Error
	if err != nil {
		return nil, 0, fmt.Errorf("database error retrieving paginated chats: %w", err)
	}

	return chats, total, nil
}

func (r *gormChatRepository) CreateWithMessages(ctx context.Context, chat *domain.Chat, messages ...*domain.Message) error {
	if err := validateChatInput(chat); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return fmt.Errorf("database error creating chat: %w", err)
		}
		return createMessages(tx, chat.ID, chat.UserID, messages)
	})
}

func (r *gormChatRepository) AppendMessages(ctx context.Context, chatID, userID uint, name *string, messages ...*domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := lockChat(tx, chatID, userID)
		if err != nil {
			return err
		}
		if chat.IsSent {
			return ErrChatAlreadySent
		}

		if err := createMessages(tx, chatID, userID, messages); err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if name != nil {
			updates["name"] = *name
		}
		if err := tx.Model(&domain.Chat{}).Where("id = ?", chatID).Updates(updates).Error; err != nil {
			return fmt.Errorf("database error updating chat: %w", err)
		}
		return nil
	})
}

func (r *gormChatRepository) UpdateName(ctx context.Context, chatID, userID uint, name string) error {
	if name == "" {
		return errors.New("chat name cannot be empty")
	}
	return r.updateOwned(ctx, chatID, userID, map[string]interface{}{"name": name})
}

func (r *gormChatRepository) BindCredential(ctx context.Context, chatID, userID, credentialID uint) error {
	return r.updateOwned(ctx, chatID, userID, map[string]interface{}{"oauth_id": credentialID})
}

// MarkSent flips is_sent from false to true. Only one caller can ever win the flip.
func (r *gormChatRepository) MarkSent(ctx context.Context, chatID, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ? AND is_sent = ?", chatID, userID, false).
		Updates(map[string]interface{}{"is_sent": true, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("database error marking chat sent: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if _, err := r.FindByIDAndUserID(ctx, chatID, userID); err != nil {
		return err
	}
	return ErrChatAlreadySent
}

// Delete removes the chat and all of its messages.
func (r *gormChatRepository) Delete(ctx context.Context, chatID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockChat(tx, chatID, userID); err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("database error deleting chat messages: %w", err)
		}
		if err := tx.Where("id = ? AND user_id = ?", chatID, userID).Delete(&domain.Chat{}).Error; err != nil {
			return fmt.Errorf("database error deleting chat: %w", err)
		}
		return nil
	})
}

func (r *gormChatRepository) updateOwned(ctx context.Context, chatID, userID uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ?", chatID, userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("database error updating chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// lockChat reads the chat row FOR UPDATE inside tx. SQLite ignores the
// locking clause and serializes writers on its own.
func lockChat(tx *gorm.DB, chatID, userID uint) (*domain.Chat, error) {
	var chat domain.Chat
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", chatID, userID).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error locking chat: %w", err)
	}
	return &chat, nil
}

func createMessages(tx *gorm.DB, chatID, userID uint, messages []*domain.Message) error {
	for _, m := range messages {
		m.ChatID = chatID
		m.UserID = userID
		if err := validateMessageInput(m); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("database error creating message: %w", err)
		}
	}
	return nil
}

func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return nil, fmt.Errorf("database error finding chat: %w", err)
}

func validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.UserID == 0 {
		return errors.New("user ID is required")
	}
	if chat.Name == "" {
		chat.Name = domain.DefaultChatName
	}
	return nil
}

func validateMessageInput(m *domain.Message) error {
	if m == nil {
		return errors.New("message cannot be nil")
	}
	if m.ChatType != domain.ChatTypeUser && m.ChatType != domain.ChatTypeAssistant {
		return fmt.Errorf("invalid chat type %q", m.ChatType)
	}
	if m.Data == "" {
		return errors.New("message data cannot be empty")
	}
	return nil
}
