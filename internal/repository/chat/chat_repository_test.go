package chat

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

func newTurns() []*domain.Message {
	return []*domain.Message{
		{ChatType: domain.ChatTypeUser, Data: "sealed-user"},
		{ChatType: domain.ChatTypeAssistant, Data: "sealed-assistant"},
	}
}

func TestCreateWithMessages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	credentialID := uint(3)
	chat := &domain.Chat{UserID: user.ID, OAuthID: &credentialID, Name: "Meeting Request"}
	turns := newTurns()

	require.NoError(t, repo.CreateWithMessages(ctx, chat, turns...))
	assert.NotZero(t, chat.ID)
	for _, turn := range turns {
		assert.NotZero(t, turn.ID)
		assert.Equal(t, chat.ID, turn.ChatID)
		assert.Equal(t, user.ID, turn.UserID)
	}
	assert.Less(t, turns[0].ID, turns[1].ID)

	stored, err := repo.FindByIDAndUserID(ctx, chat.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meeting Request", stored.Name)
	assert.True(t, stored.BoundTo(3))
	assert.False(t, stored.IsSent)
}

func TestCreateWithMessagesRollsBackOnInvalidTurn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	user := testutil.CreateUser(t, db, "owner@example.com")

	chat := &domain.Chat{UserID: user.ID}
	err := repo.CreateWithMessages(context.Background(), chat,
		&domain.Message{ChatType: domain.ChatTypeUser, Data: "ok"},
		&domain.Message{ChatType: "system", Data: "bad"},
	)
	require.Error(t, err)

	var chats, messages int64
	db.Model(&domain.Chat{}).Count(&chats)
	db.Model(&domain.Message{}).Count(&messages)
	assert.Zero(t, chats)
	assert.Zero(t, messages)
}

func TestFindByIDAndUserIDEnforcesOwnership(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	chat := &domain.Chat{UserID: owner.ID}
	require.NoError(t, repo.CreateWithMessages(ctx, chat))
	assert.Equal(t, domain.DefaultChatName, chat.Name)

	_, err := repo.FindByIDAndUserID(ctx, chat.ID, other.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestAppendMessages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	chat := &domain.Chat{UserID: user.ID, Name: "First"}
	require.NoError(t, repo.CreateWithMessages(ctx, chat, newTurns()...))

	name := "Second"
	turns := newTurns()
	require.NoError(t, repo.AppendMessages(ctx, chat.ID, user.ID, &name, turns...))
	assert.NotZero(t, turns[1].ID)

	stored, err := repo.FindByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", stored.Name)

	var count int64
	db.Model(&domain.Message{}).Where("chat_id = ?", chat.ID).Count(&count)
	assert.Equal(t, int64(4), count)

	t.Run("rejects sent chats", func(t *testing.T) {
		require.NoError(t, repo.MarkSent(ctx, chat.ID, user.ID))
		err := repo.AppendMessages(ctx, chat.ID, user.ID, nil, newTurns()...)
		assert.ErrorIs(t, err, ErrChatAlreadySent)
	})

	t.Run("rejects foreign chats", func(t *testing.T) {
		err := repo.AppendMessages(ctx, chat.ID, user.ID+100, nil, newTurns()...)
		assert.ErrorIs(t, err, ErrChatNotFound)
	})
}

func TestLongMultibyteNameStoredIntact(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")
	subject := strings.Repeat("a", 254) + "é more"

	t.Run("create", func(t *testing.T) {
		chat := &domain.Chat{UserID: user.ID, Name: subject}
		require.NoError(t, repo.CreateWithMessages(ctx, chat, newTurns()...))
		assert.Equal(t, subject, chat.Name)

		stored, err := repo.FindByID(ctx, chat.ID)
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(stored.Name))
		assert.Equal(t, subject, stored.Name)
	})

	t.Run("append", func(t *testing.T) {
		chat := &domain.Chat{UserID: user.ID, Name: "First"}
		require.NoError(t, repo.CreateWithMessages(ctx, chat, newTurns()...))

		name := subject
		require.NoError(t, repo.AppendMessages(ctx, chat.ID, user.ID, &name, newTurns()...))

		stored, err := repo.FindByID(ctx, chat.ID)
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(stored.Name))
		assert.Equal(t, subject, stored.Name)
	})

	t.Run("rename", func(t *testing.T) {
		chat := &domain.Chat{UserID: user.ID, Name: "First"}
		require.NoError(t, repo.CreateWithMessages(ctx, chat))
		require.NoError(t, repo.UpdateName(ctx, chat.ID, user.ID, subject))

		stored, err := repo.FindByID(ctx, chat.ID)
		require.NoError(t, err)
		assert.Equal(t, subject, stored.Name)
	})
}

func TestMarkSentOnlyOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	chat := &domain.Chat{UserID: user.ID}
	require.NoError(t, repo.CreateWithMessages(ctx, chat))

	require.NoError(t, repo.MarkSent(ctx, chat.ID, user.ID))
	assert.ErrorIs(t, repo.MarkSent(ctx, chat.ID, user.ID), ErrChatAlreadySent)
	assert.ErrorIs(t, repo.MarkSent(ctx, 12345, user.ID), ErrChatNotFound)
}

func TestBindCredentialAndRename(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	chat := &domain.Chat{UserID: user.ID}
	require.NoError(t, repo.CreateWithMessages(ctx, chat))

	require.NoError(t, repo.BindCredential(ctx, chat.ID, user.ID, 9))
	require.NoError(t, repo.UpdateName(ctx, chat.ID, user.ID, "Renamed"))

	stored, err := repo.FindByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.True(t, stored.BoundTo(9))
	assert.Equal(t, "Renamed", stored.Name)

	assert.Error(t, repo.UpdateName(ctx, chat.ID, user.ID, ""))
	assert.ErrorIs(t, repo.BindCredential(ctx, chat.ID, user.ID+1, 9), ErrChatNotFound)
}

func TestDeleteRemovesMessages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	chat := &domain.Chat{UserID: user.ID}
	require.NoError(t, repo.CreateWithMessages(ctx, chat, newTurns()...))

	assert.ErrorIs(t, repo.Delete(ctx, chat.ID, user.ID+1), ErrChatNotFound)
	require.NoError(t, repo.Delete(ctx, chat.ID, user.ID))

	var messages int64
	db.Model(&domain.Message{}).Count(&messages)
	assert.Zero(t, messages)
	_, err := repo.FindByID(ctx, chat.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestFindByUserIDWithPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "owner@example.com")

	var ids []uint
	for i := 0; i < 7; i++ {
		chat := &domain.Chat{UserID: user.ID}
		require.NoError(t, repo.CreateWithMessages(ctx, chat))
		ids = append(ids, chat.ID)
	}

	page, total, err := repo.FindByUserIDWithPagination(ctx, user.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 5)
	assert.Equal(t, ids[6], page[0].ID)

	page, _, err = repo.FindByUserIDWithPagination(ctx, user.ID, 5, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[1].ID)

	_, _, err = repo.FindByUserIDWithPagination(ctx, user.ID, 0, 0)
	assert.Error(t, err)
}
