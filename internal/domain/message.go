// File: internal/domain/message.go
package domain

import "time"

// Author types of a chat message.
const (
	ChatTypeUser      = "user"
	ChatTypeAssistant = "assistant"
)

// Message represents a single turn within a chat. Data holds the encrypted JSON payload.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ChatType  string    `gorm:"size:50;not null" json:"chat_type"` // "user" or "assistant"
	Data      string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }
