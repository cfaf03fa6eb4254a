package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/contact"
	"github.com/iyunix/go-easyemail/internal/repository/message"
	"github.com/iyunix/go-easyemail/internal/services/draft"
	"github.com/iyunix/go-easyemail/internal/testutil"
)

type chatFixture struct {
	service *ChatService
	store   *draft.ConversationStore
	chats   chat.ChatRepository
	owner   *domain.User
	other   *domain.User
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	chats := chat.NewChatRepository(db)
	messages := message.NewMessageRepository(db)
	resolver := draft.NewContactResolver(contact.NewContactRepository(db))
	store := draft.NewConversationStore(chats, messages, testutil.GetTestCipher(t), resolver)

	service, err := NewChatService(chats, messages, store, &NoOpLogger{})
	require.NoError(t, err)

	return &chatFixture{
		service: service,
		store:   store,
		chats:   chats,
		owner:   testutil.CreateUser(t, db, "owner@example.com"),
		other:   testutil.CreateUser(t, db, "other@example.com"),
	}
}

func (f *chatFixture) startChat(t *testing.T, name string) *domain.Chat {
	t.Helper()
	c := &domain.Chat{UserID: f.owner.ID, Name: name}
	_, _, err := f.store.Start(context.Background(), c,
		draft.UserTurn{
			Contacts:    []draft.RecipientBucket{{To: []draft.ContactRef{{Email: "a@x.com"}}}},
			Instruction: "Ask for a meeting",
			Length:      "short",
		},
		draft.AssistantTurn{Subject: name, Body: "Hi, can we meet?"},
	)
	require.NoError(t, err)
	return c
}

func TestNewChatServiceRequiresDependencies(t *testing.T) {
	_, err := NewChatService(nil, nil, nil, nil)
	assert.True(t, draft.IsType(err, draft.ErrTypeInvalidInput))
}

func TestListChatsPaginates(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		f.startChat(t, fmt.Sprintf("Chat %d", i))
	}

	first, err := f.service.ListChats(ctx, f.owner.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), first.Total)
	assert.Equal(t, DefaultChatsPerPage, first.PerPage)
	require.Len(t, first.Chats, 5)
	assert.Equal(t, "Chat 7", first.Chats[0].Name)

	second, err := f.service.ListChats(ctx, f.owner.ID, 2, 5)
	require.NoError(t, err)
	require.Len(t, second.Chats, 2)
	assert.Equal(t, "Chat 1", second.Chats[1].Name)

	none, err := f.service.ListChats(ctx, f.other.ID, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, none.Chats)
}

func TestGetMessagesDecryptsTurns(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	c := f.startChat(t, "Meeting Request")

	turns, err := f.service.GetMessages(ctx, f.owner.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, turns, 2)

	assert.Equal(t, domain.ChatTypeUser, turns[0].ChatType)
	userTurn, ok := turns[0].Data.(*draft.UserTurn)
	require.True(t, ok)
	assert.Equal(t, "Ask for a meeting", userTurn.Instruction)

	assistant, ok := turns[1].Data.(*draft.AssistantTurn)
	require.True(t, ok)
	assert.Equal(t, "Meeting Request", assistant.Subject)

	_, err = f.service.GetMessages(ctx, f.other.ID, c.ID)
	assert.True(t, draft.IsType(err, draft.ErrTypeNotFound))
}

func TestRenameChat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	c := f.startChat(t, "Meeting Request")

	renamed, err := f.service.RenameChat(ctx, f.owner.ID, c.ID, "  Quarterly sync ")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly sync", renamed.Name)

	unchanged, err := f.service.RenameChat(ctx, f.owner.ID, c.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly sync", unchanged.Name)

	stored, err := f.chats.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly sync", stored.Name)

	_, err = f.service.RenameChat(ctx, f.other.ID, c.ID, "Mine now")
	assert.True(t, draft.IsType(err, draft.ErrTypeNotFound))
}

func TestDeleteChat(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	c := f.startChat(t, "Meeting Request")

	err := f.service.DeleteChat(ctx, f.other.ID, c.ID)
	assert.True(t, draft.IsType(err, draft.ErrTypeNotFound))

	require.NoError(t, f.service.DeleteChat(ctx, f.owner.ID, c.ID))
	_, err = f.service.GetChat(ctx, f.owner.ID, c.ID)
	assert.True(t, draft.IsType(err, draft.ErrTypeNotFound))
}
