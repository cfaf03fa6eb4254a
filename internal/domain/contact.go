// File: internal/domain/contact.go
package domain

import "time"

// Contact is a stored address-book entry. Users reach their contacts through user_contacts.
type Contact struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Email       string    `gorm:"size:50;not null" json:"email"`
	PhoneCode   *string   `gorm:"size:50" json:"phone_code"`
	PhoneNumber *string   `gorm:"size:50" json:"phone_number"`
	Company     *string   `gorm:"size:50" json:"company"`
	WorkTitle   *string   `gorm:"size:50" json:"work_title"`
	College     *string   `gorm:"size:50" json:"college"`
	Major       *string   `gorm:"size:50" json:"major"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserContact associates a contact with the user that may reference it.
type UserContact struct {
	UserID    uint `gorm:"primaryKey"`
	ContactID uint `gorm:"primaryKey"`
}

func (UserContact) TableName() string { return "user_contacts" }
