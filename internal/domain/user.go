// File: internal/domain/user.go
package domain

import "time"

// User is the account on whose behalf drafts are generated and sent.
// Optional profile fields feed the sender block of the prompt.
type User struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName   string    `gorm:"size:50" json:"first_name"`
	LastName    string    `gorm:"size:100" json:"last_name"`
	PhoneCode   *string   `gorm:"size:50" json:"phone_code"`
	PhoneNumber *string   `gorm:"size:50" json:"phone_number"`
	Company     *string   `gorm:"size:50" json:"company"`
	WorkTitle   *string   `gorm:"size:50" json:"work_title"`
	College     *string   `gorm:"size:50" json:"college"`
	Major       *string   `gorm:"size:50" json:"major"`
	Contacts    []Contact `gorm:"many2many:user_contacts;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
