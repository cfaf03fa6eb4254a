package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

func TestCreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Email: "  Ada@Example.com ", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.FirstName)

	byEmail, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, created.ID+1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateRejectsInvalidEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.Create(context.Background(), &domain.User{Email: "not-an-email"})
	assert.Error(t, err)
}
