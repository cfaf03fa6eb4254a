// File: internal/repository/credential/interface.go
package credential

import (
	"context"

	"github.com/iyunix/go-easyemail/internal/domain"
)

type CredentialRepository interface {
	FindByID(ctx context.Context, credentialID uint) (*domain.Credential, error)
	FindByIDAndUserID(ctx context.Context, credentialID, userID uint) (*domain.Credential, error)
	Create(ctx context.Context, credential *domain.Credential) error
}
