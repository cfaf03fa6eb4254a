// File: internal/domain/credential.go
package domain

import (
	"net/mail"
	"time"
)

// Mail services a credential can be linked to.
const (
	ServiceGoogle    = "google"
	ServiceMicrosoft = "microsoft"
)

// Credential is a linked external mailbox. Data holds the encrypted OAuth token payload.
type Credential struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Service   string    `gorm:"size:50;not null" json:"service"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	FirstName string    `gorm:"size:50" json:"first_name"`
	LastName  *string   `gorm:"size:100" json:"last_name"`
	Data      string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Credential) TableName() string { return "user_oauth" }

// FullName joins first and last name the way the sender line expects it.
func (c *Credential) FullName() string {
	if c.LastName == nil || *c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + *c.LastName
}

// SenderAddress renders the credential as an RFC 5322 address. The display
// name is quoted, and encoded when it is not ASCII.
func (c *Credential) SenderAddress() string {
	return (&mail.Address{Name: c.FullName(), Address: c.Email}).String()
}
