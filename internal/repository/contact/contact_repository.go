// File: internal/repository/contact/contact_repository.go
package contact

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iyunix/go-easyemail/internal/domain"
)

var ErrContactNotFound = errors.New("contact not found")

type gormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

func (r *gormContactRepository) FindByIDForUser(ctx context.Context, contactID, userID uint) (*domain.Contact, error) {
	if contactID == 0 || userID == 0 {
		return nil, ErrContactNotFound
	}

	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Joins("JOIN user_contacts ON user_contacts.contact_id = contacts.id").
		Where("contacts.id = ? AND user_contacts.user_id = ?", contactID, userID).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error finding contact: %w", err)
	}
	return &contact, nil
}

func (r *gormContactRepository) CreateForUser(ctx context.Context, userID uint, contact *domain.Contact) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	if contact.Email == "" {
		return errors.New("contact email is required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contact).Error; err != nil {
			return fmt.Errorf("database error creating contact: %w", err)
		}
		link := &domain.UserContact{UserID: userID, ContactID: contact.ID}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("database error linking contact: %w", err)
		}
		return nil
	})
}
