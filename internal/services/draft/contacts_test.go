package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/contact"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

func TestContactResolver(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	stranger := testutil.CreateUser(t, db, "stranger@example.com")
	saved := testutil.CreateContact(t, db, owner.ID, &domain.Contact{
		Name:    "Grace",
		Email:   "grace@navy.mil",
		Company: testutil.StrPtr(""),
	})
	resolver := NewContactResolver(contact.NewContactRepository(db))
	ctx := context.Background()

	buckets := []RecipientBucket{
		{To: []ContactRef{{Email: " a@x.com "}, {ID: &saved.ID}}, Bcc: []ContactRef{{Email: "z@x.com"}}},
		{To: []ContactRef{{Email: "a@x.com"}}, Cc: []ContactRef{{ID: &saved.ID}}},
	}

	first, err := resolver.Resolve(ctx, buckets, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "grace@navy.mil", "a@x.com"}, Emails(first.To))
	assert.Equal(t, []string{"grace@navy.mil"}, Emails(first.Cc))
	assert.Equal(t, []string{"z@x.com"}, Emails(first.Bcc))
	assert.Equal(t, "Grace", *first.To[1].Name)
	assert.Nil(t, first.To[1].Company)

	second, err := resolver.Resolve(ctx, buckets, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = resolver.Resolve(ctx, buckets, stranger.ID)
	assert.True(t, IsType(err, ErrTypeNotFound), "got %v", err)

	_, err = resolver.Resolve(ctx, []RecipientBucket{{To: []ContactRef{{Name: testutil.StrPtr("nobody")}}}}, owner.ID)
	assert.True(t, IsType(err, ErrTypeInvalidInput), "got %v", err)
}
