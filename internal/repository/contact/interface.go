// File: internal/repository/contact/interface.go
package contact

import (
	"context"

	"github.com/iyunix/go-easyemail/internal/domain"
)

type ContactRepository interface {
	// FindByIDForUser returns the contact only when it is in the user's contact list.
	FindByIDForUser(ctx context.Context, contactID, userID uint) (*domain.Contact, error)
	CreateForUser(ctx context.Context, userID uint, contact *domain.Contact) error
}
