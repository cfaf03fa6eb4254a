package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

func TestCredentialOwnership(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()

	cred := &domain.Credential{UserID: 1, Service: domain.ServiceGoogle, Email: "me@gmail.com", FirstName: "Ada", Data: "sealed"}
	require.NoError(t, repo.Create(ctx, cred))

	found, err := repo.FindByIDAndUserID(ctx, cred.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, `"Ada" <me@gmail.com>`, found.SenderAddress())

	_, err = repo.FindByIDAndUserID(ctx, cred.ID, 2)
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	_, err = repo.FindByID(ctx, 0)
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestCreateRejectsUnknownService(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCredentialRepository(db)

	err := repo.Create(context.Background(), &domain.Credential{UserID: 1, Service: "yahoo", Email: "x@y.z"})
	assert.Error(t, err)
}
