// File: internal/domain/chat.go
package domain

import "time"

// DefaultChatName is the name a thread carries until its first draft is generated.
const DefaultChatName = "New Chat"

// Chat represents a single email-drafting conversation thread.
type Chat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // The ID of the user who owns the chat
	OAuthID   *uint     `gorm:"column:oauth_id;index" json:"oauth_id"` // Linked credential, nil once the credential is removed
	Name      string    `gorm:"type:text;not null" json:"name"`       // Derived from the latest generated subject
	IsSent    bool      `gorm:"not null;default:false" json:"is_sent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Chat) TableName() string { return "chats" }

// BoundTo reports whether the chat is currently linked to the given credential.
func (c *Chat) BoundTo(credentialID uint) bool {
	return c.OAuthID != nil && *c.OAuthID == credentialID
}
