// File: internal/repository/credential/credential_repository.go
package credential

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iyunix/go-easyemail/internal/domain"
)

var ErrCredentialNotFound = errors.New("email authentication not found")

type gormCredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &gormCredentialRepository{db: db}
}

func (r *gormCredentialRepository) FindByID(ctx context.Context, credentialID uint) (*domain.Credential, error) {
	if credentialID == 0 {
		return nil, ErrCredentialNotFound
	}

	var credential domain.Credential
	err := r.db.WithContext(ctx).First(&credential, credentialID).Error
	return handleFindError(err, &credential)
}

func (r *gormCredentialRepository) FindByIDAndUserID(ctx context.Context, credentialID, userID uint) (*domain.Credential, error) {
	if credentialID == 0 || userID == 0 {
		return nil, ErrCredentialNotFound
	}

	var credential domain.Credential
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", credentialID, userID).
		First(&credential).Error
	return handleFindError(err, &credential)
}

func (r *gormCredentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	if credential.UserID == 0 {
		return errors.New("invalid user ID")
	}
	if credential.Service != domain.ServiceGoogle && credential.Service != domain.ServiceMicrosoft {
		return fmt.Errorf("unsupported service %q", credential.Service)
	}
	if err := r.db.WithContext(ctx).Create(credential).Error; err != nil {
		return fmt.Errorf("database error creating credential: %w", err)
	}
	return nil
}

func handleFindError(err error, credential *domain.Credential) (*domain.Credential, error) {
	if err == nil {
		return credential, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	return nil, fmt.Errorf("database error finding credential: %w", err)
}
